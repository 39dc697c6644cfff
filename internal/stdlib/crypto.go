package stdlib

import "github.com/cloverlang/cloverc/internal/types"

// newCryptoPackage builds the `crypto` virtual package: three TypeId-based
// Callables, sha256, pubkey_for_exp and a coin_id helper. Its sha256 shares
// its name with the always-present builtin sha256, so when the driver puts
// package names into the root scope the builtin keeps that name.
func newCryptoPackage(ty *types.System) *Package {
	std := ty.Std()

	return &Package{
		Name: "crypto",
		Symbols: map[string]TypeId{
			"sha256":         callable(ty, []string{"bytes"}, []TypeId{std.Bytes}, std.Bytes32),
			"pubkey_for_exp": callable(ty, []string{"exponent"}, []TypeId{std.Bytes32}, std.PublicKey),
			"coin_id":        callable(ty, []string{"parent", "puzzle_hash", "amount"}, []TypeId{std.Bytes32, std.Bytes32, std.Int}, std.Bytes32),
		},
	}
}
