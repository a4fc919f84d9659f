package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"github.com/angelmondragon/sirene-backend/pkg/config"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// ErrInvalidHash signals a digest string we cannot parse.
var ErrInvalidHash = fmt.Errorf("invalid password hash")

const (
	argonPrefix      = "$argon2id$"
	legacyPBKDF2     = "pbkdf2"
	legacyScrypt     = "scrypt"
	scryptKeyLen     = 64
	maxLegacyCost = 1 << 22
)

// ArgonParams captures the Argon2id parameters embedded in each digest.
type ArgonParams struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLen     uint32
	KeyLen      uint32
}

// HashPassword returns an encoded Argon2id digest for password.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	params := paramsFromConfig(cfg)
	salt := make([]byte, params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, params.Time, params.Memory, params.Parallelism, params.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, params.Memory, params.Time, params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword reports whether password matches encoded. Besides our own
// argon2id digests it accepts the werkzeug "pbkdf2:<alg>:<iter>$salt$hex" and
// "scrypt:<n>:<r>:<p>$salt$hex" digests that imported accounts carry.
func VerifyPassword(password, encoded string) (bool, error) {
	if strings.HasPrefix(encoded, argonPrefix) {
		params, salt, want, err := decodeArgon(encoded)
		if err != nil {
			return false, err
		}
		got := argon2.IDKey([]byte(password), salt, params.Time, params.Memory, params.Parallelism, params.KeyLen)
		return subtle.ConstantTimeCompare(want, got) == 1, nil
	}
	return verifyLegacy(password, encoded)
}

// NeedsRehash reports whether encoded should be replaced by a fresh digest
// made with cfg: legacy formats always, argon2id when its cost differs.
func NeedsRehash(encoded string, cfg config.PasswordConfig) bool {
	if !strings.HasPrefix(encoded, argonPrefix) {
		return true
	}
	params, _, _, err := decodeArgon(encoded)
	if err != nil {
		return true
	}
	want := paramsFromConfig(cfg)
	return params.Memory != want.Memory ||
		params.Time != want.Time ||
		params.Parallelism != want.Parallelism ||
		params.KeyLen != want.KeyLen
}

func paramsFromConfig(cfg config.PasswordConfig) ArgonParams {
	return ArgonParams{
		Memory:      clampUint32(cfg.ArgonMemoryKB, 8, 512*1024),
		Time:        clampUint32(cfg.ArgonTime, 1, 10),
		Parallelism: uint8(clampInt(cfg.ArgonParallelism, 1, 255)),
		SaltLen:     clampUint32(cfg.ArgonSaltLen, 8, 64),
		KeyLen:      clampUint32(cfg.ArgonKeyLen, 16, 64),
	}
}

func decodeArgon(encoded string) (ArgonParams, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}
	if parts[2] != "v="+strconv.Itoa(argon2.Version) {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}

	var params ArgonParams
	for _, token := range strings.Split(parts[3], ",") {
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			return ArgonParams{}, nil, nil, ErrInvalidHash
		}
		bits := 32
		if key == "p" {
			bits = 8
		}
		v, err := strconv.ParseUint(value, 10, bits)
		if err != nil || v == 0 {
			return ArgonParams{}, nil, nil, ErrInvalidHash
		}
		switch key {
		case "m":
			params.Memory = uint32(v)
		case "t":
			params.Time = uint32(v)
		case "p":
			params.Parallelism = uint8(v)
		default:
			return ArgonParams{}, nil, nil, ErrInvalidHash
		}
	}
	if params.Memory == 0 || params.Time == 0 || params.Parallelism == 0 {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}
	params.SaltLen = uint32(len(salt))
	params.KeyLen = uint32(len(key))

	return params, salt, key, nil
}

func verifyLegacy(password, encoded string) (bool, error) {
	method, rest, ok := strings.Cut(encoded, "$")
	if !ok {
		return false, ErrInvalidHash
	}
	salt, hexKey, ok := strings.Cut(rest, "$")
	if !ok || salt == "" {
		return false, ErrInvalidHash
	}
	want, err := hex.DecodeString(hexKey)
	if err != nil || len(want) == 0 {
		return false, ErrInvalidHash
	}

	args := strings.Split(method, ":")
	var got []byte
	switch args[0] {
	case legacyPBKDF2:
		if len(args) != 3 {
			return false, ErrInvalidHash
		}
		var h func() hash.Hash
		switch args[1] {
		case "sha256":
			h = sha256.New
		case "sha512":
			h = sha512.New
		default:
			return false, ErrInvalidHash
		}
		iter, err := strconv.Atoi(args[2])
		if err != nil || iter <= 0 || iter > maxLegacyCost {
			return false, ErrInvalidHash
		}
		got = pbkdf2.Key([]byte(password), []byte(salt), iter, len(want), h)
	case legacyScrypt:
		if len(args) != 4 {
			return false, ErrInvalidHash
		}
		n, errN := strconv.Atoi(args[1])
		r, errR := strconv.Atoi(args[2])
		p, errP := strconv.Atoi(args[3])
		if errN != nil || errR != nil || errP != nil || n <= 1 || n > maxLegacyCost {
			return false, ErrInvalidHash
		}
		got, err = scrypt.Key([]byte(password), []byte(salt), n, r, p, scryptKeyLen)
		if err != nil {
			return false, ErrInvalidHash
		}
	default:
		return false, ErrInvalidHash
	}
	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

func clampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func clampUint32(value, min, max int) uint32 {
	return uint32(clampInt(value, min, max))
}
