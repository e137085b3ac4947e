package builtins

import (
	"crypto/rand"
	"fmt"
	"math"
	mathrand "math/rand"

	"github.com/deepnoodle-ai/scripthost"
	lua "github.com/yuin/gopher-lua"
)

const defaultCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// maxRandomStringLength bounds RandomString so a script cannot make the
// host allocate without limit.
const maxRandomStringLength = 1 << 20

func registerRandom(reg *scripthost.Registry, opts Options) {
	rng := opts.Rand

	// RandomInt(min, max) returns an integer in [min, max].
	reg.Register("RandomInt", func(L *lua.LState) int {
		min := L.CheckInt(1)
		max := L.OptInt(2, min+100)
		if max < min {
			L.ArgError(2, "max must not be less than min")
			return 0
		}
		if uint64(max)-uint64(min) >= math.MaxInt64 {
			L.ArgError(2, "range is too wide")
			return 0
		}
		scripthost.PushInt(L, generateRandomNumber(rng, min, max))
		return 1
	})

	// RandomFloat(min, max) returns a number in [min, max).
	reg.Register("RandomFloat", func(L *lua.LState) int {
		min := float64(L.OptNumber(1, 0))
		max := float64(L.OptNumber(2, lua.LNumber(min+1)))
		if max <= min {
			max = min + 1.0
		}
		scripthost.PushFloat(L, min+rng.Float64()*(max-min))
		return 1
	})

	// RandomString(length, charset) returns length characters from charset.
	reg.Register("RandomString", func(L *lua.LState) int {
		length := L.OptInt(1, 10)
		charset := L.OptString(2, defaultCharset)
		if length < 0 || length > maxRandomStringLength {
			L.ArgError(1, fmt.Sprintf("length must be between 0 and %d", maxRandomStringLength))
			return 0
		}
		if charset == "" {
			L.ArgError(2, "charset cannot be empty")
			return 0
		}
		scripthost.PushString(L, generateRandomString(rng, length, charset))
		return 1
	})

	// RandomChoice(list) returns one element of a non-empty sequence.
	reg.Register("RandomChoice", func(L *lua.LState) int {
		choices := L.CheckTable(1)
		n := choices.Len()
		if n == 0 {
			L.ArgError(1, "choices cannot be empty")
			return 0
		}
		L.Push(choices.RawGetInt(rng.Intn(n) + 1))
		return 1
	})

	reg.Register("UUID", func(L *lua.LState) int {
		id, err := generateUUID()
		if err != nil {
			scripthost.Raise(L, err)
			return 0
		}
		scripthost.PushString(L, id)
		return 1
	})
}

// generateUUID generates a random UUID v4
func generateUUID() (string, error) {
	uuid := make([]byte, 16)
	if _, err := rand.Read(uuid); err != nil {
		return "", err
	}

	// Set version (4) and variant bits
	uuid[6] = (uuid[6] & 0x0f) | 0x40 // Version 4
	uuid[8] = (uuid[8] & 0x3f) | 0x80 // Variant bits

	return fmt.Sprintf("%x-%x-%x-%x-%x", uuid[0:4], uuid[4:6], uuid[6:8], uuid[8:10], uuid[10:]), nil
}

// generateRandomNumber generates a random integer between min and max
// (inclusive). The span max-min must fit in an int64 below MaxInt64.
func generateRandomNumber(rng *mathrand.Rand, min, max int) int {
	span := int64(uint64(max) - uint64(min))
	return min + int(rng.Int63n(span+1))
}

// generateRandomString generates a random string of specified length from charset
func generateRandomString(rng *mathrand.Rand, length int, charset string) string {
	result := make([]byte, length)
	for i := range result {
		result[i] = charset[rng.Intn(len(charset))]
	}
	return string(result)
}
