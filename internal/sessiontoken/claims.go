package sessiontoken

import (
	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/ibmec/pict-api/internal/domain/auth"
)

// Claims is the wire form of a session token. Role-specific fields are
// pointers so that each variant carries only its own attributes.
type Claims struct {
	UserID         int64           `json:"user_id"`
	Email          string          `json:"email"`
	Name           string          `json:"name"`
	UserType       domainauth.Role `json:"user_type"`
	IsNewUser      bool            `json:"is_new_user"`
	MicrosoftToken string          `json:"microsoft_token,omitempty"`

	// advisor and admin
	Codigo        *string `json:"codigo,omitempty"`
	AreaPesquisa  *string `json:"area_pesquisa,omitempty"`
	Titulacao     *string `json:"titulacao,omitempty"`
	IsCoordenador *bool   `json:"is_coordenador,omitempty"`

	// student
	Matricula *string `json:"matricula,omitempty"`
	Curso     *string `json:"curso,omitempty"`
	Semestre  *int    `json:"semestre,omitempty"`

	// admin
	StudentID *int64 `json:"student_id,omitempty"`
	IsAdmin   *bool  `json:"is_admin,omitempty"`

	jwt.RegisteredClaims
}

// ClaimsFromSubject builds the wire claims for subject. Registered claims
// are left for the issuer to fill.
func ClaimsFromSubject(subject domainauth.Subject) Claims {
	base := subject.Base()
	c := Claims{
		UserID:         base.UserID,
		Email:          base.Email,
		Name:           base.Name,
		UserType:       subject.Role(),
		IsNewUser:      base.IsNewUser,
		MicrosoftToken: base.MicrosoftToken,
	}
	if !base.ExpiresAt.IsZero() {
		c.ExpiresAt = jwt.NewNumericDate(base.ExpiresAt)
	}

	switch s := subject.(type) {
	case domainauth.StudentSubject:
		c.Matricula = &s.Matricula
		c.Curso = &s.Curso
		c.Semestre = &s.Semestre
	case domainauth.AdvisorSubject:
		setAdvisorClaims(&c, s)
	case domainauth.AdminSubject:
		setAdvisorClaims(&c, s.AdvisorSubject)
		isAdmin := true
		c.IsAdmin = &isAdmin
		if s.StudentID != 0 {
			c.StudentID = &s.StudentID
		}
	}
	return c
}

func setAdvisorClaims(c *Claims, s domainauth.AdvisorSubject) {
	c.Codigo = &s.Codigo
	c.AreaPesquisa = &s.AreaPesquisa
	c.Titulacao = &s.Titulacao
	c.IsCoordenador = &s.IsCoordenador
}

// Subject decodes the wire claims into the tagged subject for their role.
func (c Claims) Subject() (domainauth.Subject, bool) {
	base := domainauth.SubjectBase{
		UserID:         c.UserID,
		Email:          c.Email,
		Name:           c.Name,
		IsNewUser:      c.IsNewUser,
		MicrosoftToken: c.MicrosoftToken,
	}
	if c.ExpiresAt != nil {
		base.ExpiresAt = c.ExpiresAt.UTC()
	}

	switch c.UserType {
	case domainauth.RoleStudent:
		return domainauth.StudentSubject{
			SubjectBase: base,
			Matricula:   deref(c.Matricula),
			Curso:       deref(c.Curso),
			Semestre:    deref(c.Semestre),
		}, true
	case domainauth.RoleAdvisor:
		return c.advisor(base), true
	case domainauth.RoleAdmin:
		return domainauth.AdminSubject{
			AdvisorSubject: c.advisor(base),
			StudentID:      deref(c.StudentID),
		}, true
	default:
		return nil, false
	}
}

func (c Claims) advisor(base domainauth.SubjectBase) domainauth.AdvisorSubject {
	return domainauth.AdvisorSubject{
		SubjectBase:   base,
		Codigo:        deref(c.Codigo),
		AreaPesquisa:  deref(c.AreaPesquisa),
		Titulacao:     deref(c.Titulacao),
		IsCoordenador: deref(c.IsCoordenador),
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
