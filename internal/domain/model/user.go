//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "time"

// Student is the local record for a student account.
type Student struct {
	ID                 int64     `json:"id"                  db:"id"`
	Nome               string    `json:"nome"                db:"nome"`
	Matricula          string    `json:"matricula"           db:"matricula"`
	Email              string    `json:"email"               db:"email"`
	DataNascimento     *string   `json:"data_nascimento"     db:"data_nascimento"`
	Telefone           string    `json:"telefone"            db:"telefone"`
	Curso              string    `json:"curso"               db:"curso"`
	Semestre           int       `json:"semestre"            db:"semestre"`
	Periodo            string    `json:"periodo"             db:"periodo"`
	ProjetoID          *int64    `json:"projeto_id"          db:"projeto_id"`
	OrientadorID       *int64    `json:"orientador_id"       db:"orientador_id"`
	Status             string    `json:"status"              db:"status"`
	Biografia          string    `json:"biografia"           db:"biografia"`
	InteressesPesquisa []string  `json:"interesses_pesquisa" db:"interesses_pesquisa"`
	LinkedinURL        string    `json:"linkedin_url"        db:"linkedin_url"`
	GithubURL          string    `json:"github_url"          db:"github_url"`
	CreatedAt          time.Time `json:"created_at"          db:"created_at"`
}

// Advisor is the local record for a faculty member. Admins also own one.
type Advisor struct {
	ID             int64     `json:"id"              db:"id"`
	Nome           string    `json:"nome"            db:"nome"`
	Email          string    `json:"email"           db:"email"`
	Telefone       string    `json:"telefone"        db:"telefone"`
	AreaPesquisa   string    `json:"area_pesquisa"   db:"area_pesquisa"`
	Codigo         string    `json:"codigo"          db:"codigo"`
	Titulacao      string    `json:"titulacao"       db:"titulacao"`
	LattesURL      string    `json:"lattes_url"      db:"lattes_url"`
	IsCoordenador  bool      `json:"is_coordenador"  db:"is_coordenador"`
	Biografia      string    `json:"biografia"       db:"biografia"`
	AreasInteresse []string  `json:"areas_interesse" db:"areas_interesse"`
	CreatedAt      time.Time `json:"created_at"      db:"created_at"`
}

// Admin holds the editable admin profile, keyed by email.
type Admin struct {
	ID             int64     `json:"id"              db:"id"`
	Nome           string    `json:"nome"            db:"nome"`
	Email          string    `json:"email"           db:"email"`
	Telefone       string    `json:"telefone"        db:"telefone"`
	Titulacao      string    `json:"titulacao"       db:"titulacao"`
	LattesURL      string    `json:"lattes_url"      db:"lattes_url"`
	Biografia      string    `json:"biografia"       db:"biografia"`
	AreasInteresse []string  `json:"areas_interesse" db:"areas_interesse"`
	CreatedAt      time.Time `json:"created_at"      db:"created_at"`
}

// NewStudent carries the attributes of a student record about to be created.
type NewStudent struct {
	Nome      string
	Matricula string
	Email     string
	Telefone  string
	Curso     string
	Semestre  int
	Status    string
}

// NewAdvisor carries the attributes of an advisor record about to be created.
type NewAdvisor struct {
	Nome          string
	Email         string
	Telefone      string
	AreaPesquisa  string
	Codigo        string
	Titulacao     string
	LattesURL     string
	IsCoordenador bool
}

// AdvisorDirectoryEntry is one row of the advisor listing shown to students.
type AdvisorDirectoryEntry struct {
	ID             int64    `json:"id"              db:"id"`
	Nome           string   `json:"nome"            db:"nome"`
	Email          string   `json:"email"           db:"email"`
	AreaPesquisa   string   `json:"area_pesquisa"   db:"area_pesquisa"`
	Titulacao      string   `json:"titulacao"       db:"titulacao"`
	AreasInteresse []string `json:"areas_interesse" db:"areas_interesse"`
	ProjetosAtivos int64    `json:"projetos_ativos" db:"projetos_ativos"`
	Areas          []string `json:"areas"           db:"-"`
}
