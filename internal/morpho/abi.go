// internal/morpho/abi.go
package morpho

// Morpho Blue ABI fragment: the supply entry point this service calls plus the
// Supply event emitted on success. The contract returns the (assets, shares)
// pair it settled on.
const blueABI = `[
	{"name":"supply","type":"function","stateMutability":"nonpayable","inputs":[{"name":"marketParams","type":"tuple","components":[{"name":"loanToken","type":"address"},{"name":"collateralToken","type":"address"},{"name":"oracle","type":"address"},{"name":"irm","type":"address"},{"name":"lltv","type":"uint256"}]},{"name":"assets","type":"uint256"},{"name":"shares","type":"uint256"},{"name":"onBehalf","type":"address"},{"name":"data","type":"bytes"}],"outputs":[{"name":"assetsSupplied","type":"uint256"},{"name":"sharesSupplied","type":"uint256"}]},
	{"name":"Supply","type":"event","anonymous":false,"inputs":[{"name":"id","type":"bytes32","indexed":true},{"name":"caller","type":"address","indexed":true},{"name":"onBehalf","type":"address","indexed":true},{"name":"assets","type":"uint256","indexed":false},{"name":"shares","type":"uint256","indexed":false}]}
]`
