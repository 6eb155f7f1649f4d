package session

import "math/rand"

const (
	codeLength = 4
	maxRetries = 100
)

// I and O are left out.
var codeLetters = []rune("ABCDEFGHJKLMNPQRSTUVWXYZ")

// GenerateCode returns a random 4-letter session code that taken reports as
// free. ok is false when no free code turned up within maxRetries draws.
func GenerateCode(taken func(code string) bool) (string, bool) {
	for i := 0; i < maxRetries; i++ {
		if code := randomCode(); !taken(code) {
			return code, true
		}
	}
	return "", false
}

func randomCode() string {
	b := make([]rune, codeLength)
	for i := range b {
		b[i] = codeLetters[rand.Intn(len(codeLetters))]
	}
	return string(b)
}
