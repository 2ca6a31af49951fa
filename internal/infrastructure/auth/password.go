package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword compares a bcrypt hash with a plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// PasswordHasher binds a cost so use cases don't carry it around.
type PasswordHasher struct {
	Cost int
}

func (h PasswordHasher) Hash(plain string) (string, error) {
	return HashPassword(plain, h.Cost)
}

func (h PasswordHasher) Compare(hash, plain string) bool {
	return VerifyPassword(hash, plain)
}
