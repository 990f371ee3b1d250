package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	KindExpense Kind = 1
	KindIncome  Kind = 2
)

const (
	PurposeExpense Purpose = 1
	PurposeIncome  Purpose = 2
	PurposeBoth    Purpose = 3
)

const (
	// AdultAge is the minimum age allowed to record income.
	AdultAge = 18

	MaxNameLength                   = 255
	MaxCategoryDescriptionLength    = 255
	MaxTransactionDescriptionLength = 500
)

type (
	// Kind is the direction of money flow of a transaction.
	Kind int

	// Purpose restricts which transaction kinds a category accepts.
	Purpose int

	Person struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Age  int    `json:"age"`
	}

	Category struct {
		ID          int64   `json:"id"`
		Description string  `json:"description"`
		Purpose     Purpose `json:"purpose"`
	}

	Transaction struct {
		ID          int64  `json:"id"`
		Description string `json:"description"`
		Amount      Money  `json:"amount"`
		Kind        Kind   `json:"kind"`
		PersonID    int64  `json:"personId"`
		CategoryID  int64  `json:"categoryId"`
	}

	CreatePersonRequest struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}

	CreateCategoryRequest struct {
		Description string  `json:"description"`
		Purpose     Purpose `json:"purpose"`
	}

	CreateTransactionRequest struct {
		Description string `json:"description"`
		Amount      Money  `json:"amount"`
		Kind        Kind   `json:"kind"`
		PersonID    int64  `json:"personId"`
		CategoryID  int64  `json:"categoryId"`
	}
)

func (k Kind) String() string {
	switch k {
	case KindExpense:
		return "expense"
	case KindIncome:
		return "income"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

func (k Kind) IsValid() bool {
	return k == KindExpense || k == KindIncome
}

// ParseKind accepts the text form ("expense", "income") or the numeric code.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expense", "1":
		return KindExpense, nil
	case "income", "2":
		return KindIncome, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidKind, int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// UnmarshalJSON accepts a JSON string or a bare numeric code.
func (k *Kind) UnmarshalJSON(data []byte) error {
	return k.UnmarshalText(unquoteJSON(data))
}

func (p Purpose) String() string {
	switch p {
	case PurposeExpense:
		return "expense"
	case PurposeIncome:
		return "income"
	case PurposeBoth:
		return "both"
	default:
		return "purpose(" + strconv.Itoa(int(p)) + ")"
	}
}

func (p Purpose) IsValid() bool {
	return p == PurposeExpense || p == PurposeIncome || p == PurposeBoth
}

// Permits reports whether a category with this purpose accepts kind k.
func (p Purpose) Permits(k Kind) bool {
	switch p {
	case PurposeBoth:
		return k.IsValid()
	case PurposeExpense:
		return k == KindExpense
	case PurposeIncome:
		return k == KindIncome
	default:
		return false
	}
}

// ParsePurpose accepts the text form ("expense", "income", "both") or the numeric code.
func ParsePurpose(s string) (Purpose, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expense", "1":
		return PurposeExpense, nil
	case "income", "2":
		return PurposeIncome, nil
	case "both", "3":
		return PurposeBoth, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPurpose, s)
}

func (p Purpose) MarshalText() ([]byte, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPurpose, int(p))
	}
	return []byte(p.String()), nil
}

func (p *Purpose) UnmarshalText(text []byte) error {
	parsed, err := ParsePurpose(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// UnmarshalJSON accepts a JSON string or a bare numeric code.
func (p *Purpose) UnmarshalJSON(data []byte) error {
	return p.UnmarshalText(unquoteJSON(data))
}

func unquoteJSON(data []byte) []byte {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			return []byte(s)
		}
	}
	return data
}

func (p Person) Validate() error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return ErrInvalidName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidName, MaxNameLength)
	}
	if p.Age <= 0 {
		return ErrInvalidAge
	}
	return nil
}

// IsMinor reports whether the person is below AdultAge.
func (p Person) IsMinor() bool {
	return p.Age < AdultAge
}

func (c Category) Validate() error {
	desc := strings.TrimSpace(c.Description)
	if desc == "" {
		return ErrInvalidDescription
	}
	if utf8.RuneCountInString(desc) > MaxCategoryDescriptionLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidDescription, MaxCategoryDescriptionLength)
	}
	if !c.Purpose.IsValid() {
		return ErrInvalidPurpose
	}
	return nil
}

// Validate checks the fields of a request that need no lookups.
// Every failure is reported as ErrInvalidInput.
func (r CreateTransactionRequest) Validate() error {
	desc := strings.TrimSpace(r.Description)
	if desc == "" {
		return ErrInvalidInput
	}
	if !r.Amount.IsPositive() {
		return ErrInvalidInput
	}
	if utf8.RuneCountInString(desc) > MaxTransactionDescriptionLength {
		return fmt.Errorf("%w: description longer than %d characters", ErrInvalidInput, MaxTransactionDescriptionLength)
	}
	if !r.Kind.IsValid() {
		return fmt.Errorf("%w: unknown transaction kind", ErrInvalidInput)
	}
	return nil
}

// Transaction builds the record to insert. The id is assigned by storage.
func (r CreateTransactionRequest) Transaction() Transaction {
	return Transaction{
		Description: strings.TrimSpace(r.Description),
		Amount:      r.Amount,
		Kind:        r.Kind,
		PersonID:    r.PersonID,
		CategoryID:  r.CategoryID,
	}
}
