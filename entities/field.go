package entities

import (
	"fmt"
	"strconv"
	"strings"
)

type FieldKind string

const (
	FieldFirstName FieldKind = "first_name"
	FieldLastName  FieldKind = "last_name"
	FieldDocument  FieldKind = "document"
	FieldPhone     FieldKind = "phone"
	FieldEmail     FieldKind = "email"
)

// FieldKinds is the order in which fields are rendered for every ticket.
var FieldKinds = []FieldKind{
	FieldFirstName,
	FieldLastName,
	FieldDocument,
	FieldPhone,
	FieldEmail,
}

// UniqueFieldKinds must not repeat across tickets of the same checkout.
var UniqueFieldKinds = []FieldKind{
	FieldDocument,
	FieldPhone,
	FieldEmail,
}

const fieldIDPrefix = "billing_"

// internationalPhoneSuffix marks the full international phone stored next to billing_phone_<n>.
const internationalPhoneSuffix = "_full"

func (k FieldKind) Valid() bool {
	switch k {
	case FieldFirstName, FieldLastName, FieldDocument, FieldPhone, FieldEmail:
		return true
	}
	return false
}

// idPart is the segment used in external field identifiers, e.g. billing_cpf_1.
func (k FieldKind) idPart() string {
	switch k {
	case FieldFirstName:
		return "first_name"
	case FieldLastName:
		return "last_name"
	case FieldDocument:
		return "cpf"
	case FieldPhone:
		return "phone"
	case FieldEmail:
		return "email"
	}
	return string(k)
}

type FieldKey struct {
	Kind   FieldKind `json:"kind"`
	Ticket int       `json:"ticket"`
}

func NewFieldKey(kind FieldKind, ticket int) FieldKey {
	return FieldKey{Kind: kind, Ticket: ticket}
}

// ID is the stable external identifier of the field (form input id, cookie
// name and order meta key).
func (k FieldKey) ID() string {
	return fieldIDPrefix + k.Kind.idPart() + "_" + strconv.Itoa(k.Ticket)
}

// InternationalPhoneID is the identifier of the full international phone
// that accompanies the phone field of the same ticket.
func (k FieldKey) InternationalPhoneID() string {
	return NewFieldKey(FieldPhone, k.Ticket).ID() + internationalPhoneSuffix
}

func (k FieldKey) String() string {
	return k.ID()
}

func (k FieldKey) MarshalText() ([]byte, error) {
	if !k.Kind.Valid() || k.Ticket < 1 {
		return nil, fmt.Errorf("invalid field key %q/%d", k.Kind, k.Ticket)
	}
	return []byte(k.ID()), nil
}

func (k *FieldKey) UnmarshalText(text []byte) error {
	parsed, err := ParseFieldKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func ParseFieldKey(id string) (FieldKey, error) {
	rest, ok := strings.CutPrefix(id, fieldIDPrefix)
	if !ok {
		return FieldKey{}, fmt.Errorf("%w: %q", ErrUnknownField, id)
	}

	sep := strings.LastIndex(rest, "_")
	if sep <= 0 {
		return FieldKey{}, fmt.Errorf("%w: %q", ErrUnknownField, id)
	}

	ticket, err := strconv.Atoi(rest[sep+1:])
	if err != nil || ticket < 1 {
		return FieldKey{}, fmt.Errorf("%w: %q", ErrUnknownField, id)
	}

	part := rest[:sep]
	for _, kind := range FieldKinds {
		if kind.idPart() == part {
			return NewFieldKey(kind, ticket), nil
		}
	}

	return FieldKey{}, fmt.Errorf("%w: %q", ErrUnknownField, id)
}

// ParseInternationalPhoneID returns the phone key owning an id such as
// billing_phone_2_full.
func ParseInternationalPhoneID(id string) (FieldKey, bool) {
	base, ok := strings.CutSuffix(id, internationalPhoneSuffix)
	if !ok {
		return FieldKey{}, false
	}

	key, err := ParseFieldKey(base)
	if err != nil || key.Kind != FieldPhone {
		return FieldKey{}, false
	}

	return key, true
}
