package domain

import "errors"

type Auth struct {
	// SecretRef points to a secret-store entry, typically in "fido://<number>/password" form.
	SecretRef string
}

type Credentials struct {
	PhoneNumber PhoneNumber
	Password    string
}

func (c Credentials) Validate() error {
	if c.PhoneNumber == "" {
		return errors.New("phone number is required")
	}
	if c.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

func PasswordSecretRef(number PhoneNumber) string {
	return "fido://" + string(number) + "/password"
}
