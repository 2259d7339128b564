package bindings

import "github.com/tetu-io/vaultctl/internal/domain"

// CoreContracts is the set of live core contract handles on one chain.
type CoreContracts struct {
	Controller *Controller
	Bookkeeper *Bookkeeper
	Announcer  *Announcer
}

// Addresses returns the address triple of the handles.
func (c *CoreContracts) Addresses() domain.CoreAddresses {
	return domain.CoreAddresses{
		Controller: c.Controller.Address(),
		Announcer:  c.Announcer.Address(),
		Bookkeeper: c.Bookkeeper.Address(),
	}
}
