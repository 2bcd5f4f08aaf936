package cipher

import "fmt"

// Decrypt applies the kind's transform with key. The only error is a key
// whose type does not belong to kind; parameter values are trusted.
func Decrypt(kind Kind, text string, key Key) (string, error) {
	switch kind {
	case KindROT13:
		return DecryptROT13(text), nil
	case KindAtbash:
		return DecryptAtbash(text), nil
	case KindPolybius:
		return DecryptPolybius(text), nil
	case KindBacon:
		return DecryptBacon(text), nil
	case KindReverse:
		return DecryptReverse(text), nil
	}

	switch k := key.(type) {
	case ShiftKey:
		if kind == KindCaesar {
			return DecryptCaesar(text, int(k)), nil
		}
	case KeyStream:
		switch kind {
		case KindVigenere:
			return DecryptVigenere(text, k), nil
		case KindBeaufort:
			return DecryptBeaufort(text, k), nil
		case KindHybrid:
			return DecryptHybrid(text, k), nil
		}
	case RailKey:
		if kind == KindRailFence {
			return DecryptRailFence(text, int(k)), nil
		}
	case AffineKey:
		if kind == KindAffine {
			return DecryptAffine(text, k), nil
		}
	case ColumnKey:
		if kind == KindColumnar {
			return DecryptColumnar(text, k), nil
		}
	case WordKey:
		if kind == KindPlayfair {
			return DecryptPlayfair(text, k), nil
		}
	}
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return "", fmt.Errorf("%w: %s cannot use %T", ErrKeyMismatch, kind.Label(), key)
}

// Encrypt applies the forward transform for kind. Self-inverse ciphers reuse
// their decryption; Playfair, Polybius and Bacon have no forward transform.
func Encrypt(kind Kind, text string, key Key) (string, error) {
	switch kind {
	case KindROT13:
		return DecryptROT13(text), nil
	case KindAtbash:
		return DecryptAtbash(text), nil
	case KindReverse:
		return DecryptReverse(text), nil
	case KindPlayfair, KindPolybius, KindBacon:
		return "", fmt.Errorf("%s has no forward transform", kind.Label())
	}

	switch k := key.(type) {
	case ShiftKey:
		if kind == KindCaesar {
			return EncryptCaesar(text, int(k)), nil
		}
	case KeyStream:
		switch kind {
		case KindVigenere:
			return EncryptVigenere(text, k), nil
		case KindBeaufort:
			return EncryptBeaufort(text, k), nil
		case KindHybrid:
			return EncryptHybrid(text, k), nil
		}
	case RailKey:
		if kind == KindRailFence {
			return EncryptRailFence(text, int(k)), nil
		}
	case AffineKey:
		if kind == KindAffine {
			return EncryptAffine(text, k), nil
		}
	case ColumnKey:
		if kind == KindColumnar {
			return EncryptColumnar(text, k), nil
		}
	}
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return "", fmt.Errorf("%w: %s cannot use %T", ErrKeyMismatch, kind.Label(), key)
}
