// password хэширует и проверяет пароли пользователей с помощью bcrypt.
//
// Хэш включает случайную соль, поэтому два вызова Hash для одного пароля
// дают разные строки, и обе проходят Verify.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxLength - максимальная длина пароля в байтах, которую принимает bcrypt.
const MaxLength = 72

// Hasher хэширует пароли с заданной стоимостью bcrypt.
type Hasher struct {
	cost int
}

// NewHasher создаёт Hasher. Стоимость вне диапазона bcrypt
// заменяется на bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &Hasher{cost: cost}
}

// Hash возвращает bcrypt-хэш пароля.
func (h *Hasher) Hash(password string) (string, error) {
	const op = "password.Hash"

	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(b), nil
}

// Verify сравнивает пароль с хэшем за постоянное время.
// Повреждённый или пустой хэш даёт false, а не ошибку.
func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
