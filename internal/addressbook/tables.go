package addressbook

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/tetu-io/vaultctl/internal/domain"
)

// Chain IDs the built-in tables know about.
const (
	ChainEth       = "1"
	ChainRinkeby   = "4"
	ChainBsc       = "56"
	ChainMatic     = "137"
	ChainFtm       = "250"
	ChainZkTest    = "1402"
	ChainBase      = "8453"
	ChainHardhat   = "31337"
	ChainSimulated = "1337"
)

// Oracle is the price oracle shared by the deployed tooling.
var Oracle = common.HexToAddress("0xb8c898e946a1e82f244c7fcaa1f6bd4de028d559")

// Base chain constants.
var (
	BaseWETH                = common.HexToAddress("0x4200000000000000000000000000000000000006")
	BaseVaultImplementation = common.HexToAddress("0xA81d2B4f9Fa3ffc8Ce7b415562449c1271B9C9C9")
)

var builtinCore = map[string]domain.CoreAddresses{
	ChainBase: {
		Controller: common.HexToAddress("0x0bdA2d853D3F3fA7072eFFF7cEE9Eed733530bdD"),
		Announcer:  common.HexToAddress("0xA120BF4aCDB982580Fb40a5325950cC3410419A1"),
		Bookkeeper: common.HexToAddress("0x7ee08267CE27DDf41a1C4Fe3850a469D9b77DB73"),
	},
}

// No tooling is published yet; entries come from addresses.yaml.
var builtinTools = map[string]domain.ToolsAddresses{}

var builtinTokens = map[string]domain.TokenBook{
	ChainEth: {
		"usdc": common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"),
	},
	ChainBsc: {
		"usdc": common.HexToAddress("0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d"),
	},
	ChainMatic: {
		"usdc":                common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"),
		"sushi_lp_token_usdc": common.HexToAddress("0xF1c97B5d031f09f64580Fe79FE30110A8C971bF9"),
		"quick_lp_token_usdc": common.HexToAddress("0x22E2BDaBEbA9b5ff8924275DbE47aDE5cf7b822B"),
	},
	ChainFtm: {
		"usdc": common.HexToAddress("0x04068DA6C83AFCFA0e13ba15A6696662335D5B75"),
	},
	ChainRinkeby: {
		"quick":               common.HexToAddress("0xDE93781D8805b2698948996D71Ed03268B6e8549"),
		"sushi":               common.HexToAddress("0x45128E1511C48Ed4A50FE1E1548B293Fd9901cad"),
		"usdc":                common.HexToAddress("0xa85682167bA1da84bccadEf0C737b63c14196803"),
		"weth":                common.HexToAddress("0x65741ef7bF896E9146125E289C0858552659B66b"),
		"sushi_lp_token_usdc": common.HexToAddress("0x02436A8Ce8E92Fe980166b5edd8C844DC2EaC2ee"),
		"quick_lp_token_usdc": domain.ZeroAddress,
	},
	ChainZkTest: {
		"usdc": domain.ZeroAddress,
	},
}

// Local chains use the zero address for the native token.
var builtinNetworkTokens = map[string]common.Address{
	ChainBase:      BaseWETH,
	ChainHardhat:   domain.ZeroAddress,
	ChainSimulated: domain.ZeroAddress,
}

// Governance on local chains is the first signer and is resolved at runtime.
var builtinGovernance = map[string]common.Address{}
