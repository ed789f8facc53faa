// Package rand produces random test data.
package rand

import (
	"math/rand"
	"sync"
	"time"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

var (
	once sync.Once
	mu   sync.Mutex
	gen  *rand.Rand
)

func source() {
	gen = rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec
}

// Bytes returns n random bytes
func Bytes(n int) []byte {
	once.Do(source)
	buf := make([]byte, n)
	mu.Lock()
	_, _ = gen.Read(buf)
	mu.Unlock()
	return buf
}

// LetterString returns a random string of n characters picked in [a-z0-9]
func LetterString(n int) string {
	buf := Bytes(n)
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf)
}
