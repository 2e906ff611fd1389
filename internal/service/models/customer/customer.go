package customer

import (
	"github.com/driano7/XocoCafe-sub000/internal/service/models/record"
)

// Table is the backing table for customer accounts.
const Table = "users"

// Columns is the projection used when enriching a ticket; nothing beyond the
// encrypted name/phone parts and the public identifiers is read.
var Columns = []string{
	"id",
	"client_id",
	"email",
	"first_name_encrypted", "first_name_iv", "first_name_tag", "first_name_salt",
	"last_name_encrypted", "last_name_iv", "last_name_tag", "last_name_salt",
	"phone_encrypted", "phone_iv", "phone_tag", "phone_salt",
}

// Sealed holds one encrypted-at-rest value with its decryption parameters.
type Sealed struct {
	Ciphertext string
	IV         string
	Tag        string
	Salt       string
}

// Empty reports whether there is nothing to decrypt.
func (s Sealed) Empty() bool {
	return s.Ciphertext == ""
}

// Account is the stored customer row.
type Account struct {
	ID        string
	ClientID  *string
	Email     *string
	FirstName Sealed
	LastName  Sealed
	Phone     Sealed
}

func sealedFromRecord(r record.Record, prefix string) Sealed {
	get := func(suffix string) string {
		if s := r.Text(prefix + "_" + suffix); s != nil {
			return *s
		}
		return ""
	}

	return Sealed{
		Ciphertext: get("encrypted"),
		IV:         get("iv"),
		Tag:        get("tag"),
		Salt:       get("salt"),
	}
}

func FromRecord(r record.Record) Account {
	a := Account{
		ClientID:  r.Text("client_id", "clientId"),
		Email:     r.Text("email"),
		FirstName: sealedFromRecord(r, "first_name"),
		LastName:  sealedFromRecord(r, "last_name"),
		Phone:     sealedFromRecord(r, "phone"),
	}
	if id := r.Text("id"); id != nil {
		a.ID = *id
	}

	return a
}
