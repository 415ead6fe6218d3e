// Package identity implements the OIDC-style user identity attributes
// record (spec §3.5) carried by AuthenticationToken.Admin's acting_as
// field and produced by authentication collaborators.
package identity

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingIdentityKey is returned when neither tokenIdentifier nor both
// issuer and subject are present on decode.
var ErrMissingIdentityKey = errors.New("missing identity key")

// Attributes is a record of OIDC user claims plus the required canonical
// TokenIdentifier. TokenIdentifier is either supplied directly or derived
// from Issuer and Subject via DeriveTokenIdentifier (spec §3.5).
type Attributes struct {
	TokenIdentifier     string
	Issuer              *string
	Subject             *string
	Name                *string
	GivenName           *string
	FamilyName          *string
	Nickname            *string
	PreferredUsername   *string
	ProfileURL          *string
	PictureURL          *string
	WebsiteURL          *string
	Email               *string
	EmailVerified       *bool
	Gender              *string
	Birthday            *string
	Timezone            *string
	Language            *string
	PhoneNumber         *string
	PhoneNumberVerified *bool
	Address             *string
	// UpdatedAt is stored as an RFC3339 string, matching the original.
	UpdatedAt *string
}

// DeriveTokenIdentifier builds the canonical token identifier from an
// issuer and subject: "<issuer>|<subject>".
func DeriveTokenIdentifier(issuer, subject string) string {
	return issuer + "|" + subject
}

type wireAttributes struct {
	TokenIdentifier     *string `json:"tokenIdentifier,omitempty"`
	Issuer              *string `json:"issuer,omitempty"`
	Subject             *string `json:"subject,omitempty"`
	Name                *string `json:"name,omitempty"`
	GivenName           *string `json:"givenName,omitempty"`
	FamilyName          *string `json:"familyName,omitempty"`
	Nickname            *string `json:"nickname,omitempty"`
	PreferredUsername   *string `json:"preferredUsername,omitempty"`
	ProfileURL          *string `json:"profileUrl,omitempty"`
	PictureURL          *string `json:"pictureUrl,omitempty"`
	WebsiteURL          *string `json:"websiteUrl,omitempty"`
	Email               *string `json:"email,omitempty"`
	EmailVerified       *bool   `json:"emailVerified,omitempty"`
	Gender              *string `json:"gender,omitempty"`
	Birthday            *string `json:"birthday,omitempty"`
	Timezone            *string `json:"timezone,omitempty"`
	Language            *string `json:"language,omitempty"`
	PhoneNumber         *string `json:"phoneNumber,omitempty"`
	PhoneNumberVerified *bool   `json:"phoneNumberVerified,omitempty"`
	Address             *string `json:"address,omitempty"`
	UpdatedAt           *string `json:"updatedAt,omitempty"`
}

// MarshalJSON serializes Attributes with tokenIdentifier always present
// and every other field omitted when absent.
func (a Attributes) MarshalJSON() ([]byte, error) {
	tokenIdentifier := a.TokenIdentifier
	w := wireAttributes{
		TokenIdentifier:     &tokenIdentifier,
		Issuer:              a.Issuer,
		Subject:             a.Subject,
		Name:                a.Name,
		GivenName:           a.GivenName,
		FamilyName:          a.FamilyName,
		Nickname:            a.Nickname,
		PreferredUsername:   a.PreferredUsername,
		ProfileURL:          a.ProfileURL,
		PictureURL:          a.PictureURL,
		WebsiteURL:          a.WebsiteURL,
		Email:               a.Email,
		EmailVerified:       a.EmailVerified,
		Gender:              a.Gender,
		Birthday:            a.Birthday,
		Timezone:            a.Timezone,
		Language:            a.Language,
		PhoneNumber:         a.PhoneNumber,
		PhoneNumberVerified: a.PhoneNumberVerified,
		Address:             a.Address,
		UpdatedAt:           a.UpdatedAt,
	}
	return json.Marshal(w)
}

// UnmarshalJSON parses Attributes, applying the tokenIdentifier-or-derived
// rule from spec §3.5: absent tokenIdentifier with issuer and subject both
// present derives "<issuer>|<subject>"; otherwise fails with
// ErrMissingIdentityKey.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	var w wireAttributes
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var tokenIdentifier string
	switch {
	case w.TokenIdentifier != nil:
		tokenIdentifier = *w.TokenIdentifier
	case w.Issuer != nil && w.Subject != nil:
		tokenIdentifier = DeriveTokenIdentifier(*w.Issuer, *w.Subject)
	default:
		return fmt.Errorf(`either "tokenIdentifier" or "issuer" and "subject" must be set: %w`, ErrMissingIdentityKey)
	}

	*a = Attributes{
		TokenIdentifier:     tokenIdentifier,
		Issuer:              w.Issuer,
		Subject:             w.Subject,
		Name:                w.Name,
		GivenName:           w.GivenName,
		FamilyName:          w.FamilyName,
		Nickname:            w.Nickname,
		PreferredUsername:   w.PreferredUsername,
		ProfileURL:          w.ProfileURL,
		PictureURL:          w.PictureURL,
		WebsiteURL:          w.WebsiteURL,
		Email:               w.Email,
		EmailVerified:       w.EmailVerified,
		Gender:              w.Gender,
		Birthday:            w.Birthday,
		Timezone:            w.Timezone,
		Language:            w.Language,
		PhoneNumber:         w.PhoneNumber,
		PhoneNumberVerified: w.PhoneNumberVerified,
		Address:             w.Address,
		UpdatedAt:           w.UpdatedAt,
	}
	return nil
}
