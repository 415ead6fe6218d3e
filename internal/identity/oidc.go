package identity

// UserinfoClaims is the subset of an OIDC userinfo response this package
// converts into Attributes. Field names follow the standard OIDC claim
// set (https://openid.net/specs/openid-connect-core-1_0.html#StandardClaims).
type UserinfoClaims struct {
	Sub                 string `json:"sub"`
	Name                string `json:"name"`
	GivenName           string `json:"given_name"`
	FamilyName          string `json:"family_name"`
	Nickname            string `json:"nickname"`
	PreferredUsername   string `json:"preferred_username"`
	Profile             string `json:"profile"`
	Picture             string `json:"picture"`
	Website             string `json:"website"`
	Email               string `json:"email"`
	EmailVerified       bool   `json:"email_verified"`
	Gender              string `json:"gender"`
	Birthdate           string `json:"birthdate"`
	ZoneInfo            string `json:"zoneinfo"`
	Locale              string `json:"locale"`
	PhoneNumber         string `json:"phone_number"`
	PhoneNumberVerified bool   `json:"phone_number_verified"`
	Address             string `json:"address"`
	UpdatedAt           string `json:"updated_at"`
}

// FromOIDCClaims builds Attributes from a userinfo response and the issuer
// that was discovered to fetch it. TokenIdentifier is always derived from
// issuer+sub, matching how collaborators mint identities from a freshly
// verified ID token rather than trusting a client-supplied tokenIdentifier.
func FromOIDCClaims(issuer string, claims UserinfoClaims) Attributes {
	issuerCopy := issuer
	subjectCopy := claims.Sub
	a := Attributes{
		TokenIdentifier: DeriveTokenIdentifier(issuer, claims.Sub),
		Issuer:          &issuerCopy,
		Subject:         &subjectCopy,
	}
	a.Name = nonEmpty(claims.Name)
	a.GivenName = nonEmpty(claims.GivenName)
	a.FamilyName = nonEmpty(claims.FamilyName)
	a.Nickname = nonEmpty(claims.Nickname)
	a.PreferredUsername = nonEmpty(claims.PreferredUsername)
	a.ProfileURL = nonEmpty(claims.Profile)
	a.PictureURL = nonEmpty(claims.Picture)
	a.WebsiteURL = nonEmpty(claims.Website)
	a.Email = nonEmpty(claims.Email)
	if claims.EmailVerified {
		v := true
		a.EmailVerified = &v
	}
	a.Gender = nonEmpty(claims.Gender)
	a.Birthday = nonEmpty(claims.Birthdate)
	a.Timezone = nonEmpty(claims.ZoneInfo)
	a.Language = nonEmpty(claims.Locale)
	a.PhoneNumber = nonEmpty(claims.PhoneNumber)
	if claims.PhoneNumberVerified {
		v := true
		a.PhoneNumberVerified = &v
	}
	a.Address = nonEmpty(claims.Address)
	a.UpdatedAt = nonEmpty(claims.UpdatedAt)
	return a
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
