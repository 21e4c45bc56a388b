package service

import (
	"fmt"

	"github.com/fernet/fernet-go"
)

// FernetEncryptor encrypts personal identifiers with a pre-shared Fernet
// key. Only confidentiality matters to the downstream flow; tokens are not
// deterministic.
type FernetEncryptor struct {
	key *fernet.Key
}

func NewFernetEncryptor(encodedKey string) (*FernetEncryptor, error) {
	keys, err := fernet.DecodeKeys(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("decode fernet key: %w", err)
	}
	return &FernetEncryptor{key: keys[0]}, nil
}

func (e *FernetEncryptor) Encrypt(plaintext string) (string, error) {
	token, err := fernet.EncryptAndSign([]byte(plaintext), e.key)
	if err != nil {
		return "", fmt.Errorf("encrypt: %w", err)
	}
	return string(token), nil
}
