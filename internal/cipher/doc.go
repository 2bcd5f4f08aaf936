// Package cipher provides the classical cipher transforms that 0xcrack
// brute forces, plus the operation registry used to apply a single known key.
//
// # Overview
//
// The catalog is closed: Caesar, ROT13, Atbash, Vigenère, Rail Fence,
// Affine, Beaufort, Columnar Transposition, Playfair, Polybius Square, Bacon,
// Reverse, and an Atbash+Vigenère hybrid. Each family has a Kind and a key
// shape:
//
//	ShiftKey   Caesar
//	KeyStream  Vigenère, Beaufort, Hybrid
//	RailKey    Rail Fence
//	AffineKey  Affine (a coprime to 26, enforced by NewAffineKey)
//	ColumnKey  Columnar
//	WordKey    Playfair
//	NoKey      ROT13, Atbash, Polybius, Bacon, Reverse
//
// # Transforms
//
// The Decrypt* functions are pure. Letter arithmetic is mod 26 and keeps
// case; anything that is not an ASCII letter passes through and does not
// advance a key stream:
//
//	plain := cipher.DecryptVigenere("Lxfopv ef rnhr", cipher.KeyStream{11, 4, 12, 14, 13})
//
// The transforms trust their parameters. Build keys through the New*/Parse*
// constructors when they come from outside the process.
//
// # Operations
//
// Every family registers "<kind>_decrypt" and, when a forward transform
// exists, "<kind>_encrypt":
//
//	op, _ := cipher.GetOperation("affine_decrypt")
//	out, err := op.Execute(ctx, ciphertext, map[string]interface{}{"a": 5, "b": 8})
//
// Operations chain through Pipeline, and reversible pipelines can be turned
// around with Pipeline.Reverse.
//
// # Detection
//
// SmartDetector inspects the ciphertext's character classes (digit pairs,
// a/b groups, letter mix) and suggests families to try first. It does no key
// length analysis.
//
// # Thread Safety
//
// Transforms and operations are stateless and safe for concurrent use. The
// operation registry is guarded by a RWMutex.
package cipher
