package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/redis/go-redis/v9"

	"github.com/ibmec/pict-api/config"
	"github.com/ibmec/pict-api/internal/adapters/identityrules"
	"github.com/ibmec/pict-api/internal/bootstrap"
	"github.com/ibmec/pict-api/internal/core"
	"github.com/ibmec/pict-api/internal/data"
	domainauth "github.com/ibmec/pict-api/internal/domain/auth"
)

func runResolveRole(cmdCtx *commandContext, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: pict-admin resolve-role <email> [email...]")
	}
	return printRoles(cmdCtx.Out, identityrules.New(cmdCtx.Config.Auth.Identity), args)
}

func printRoles(w io.Writer, table identityrules.Table, emails []string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writef(tw, "EMAIL\tROLE\tRULE\n"); err != nil {
		return err
	}
	for _, email := range emails {
		role, rule := table.Evaluate(email)
		if err := writef(tw, "%s\t%s\t%s\n", email, role, rule); err != nil {
			return err
		}
	}
	return tw.Flush()
}

type issueTokenOptions struct {
	Email     string
	Name      string
	Role      domainauth.Role
	UserID    int64
	StudentID int64
	Code      string
}

func parseIssueTokenFlags(args []string) (issueTokenOptions, error) {
	fs := flag.NewFlagSet("issue-token", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts issueTokenOptions
	var role string
	fs.StringVar(&opts.Email, "email", "", "Email placed in the token (required)")
	fs.StringVar(&opts.Name, "name", "", "Display name (defaults to the email)")
	fs.StringVar(&role, "role", "", "aluno, professor or admin; derived from the email when empty")
	fs.Int64Var(&opts.UserID, "id", 1, "Local record id the token refers to")
	fs.Int64Var(&opts.StudentID, "student-id", 0, "Student record id for admin tokens (defaults to --id)")
	fs.StringVar(&opts.Code, "code", "", "Matricula for students or codigo for advisors (derived from the email when empty)")
	if err := fs.Parse(args); err != nil {
		return issueTokenOptions{}, err
	}

	opts.Email = strings.ToLower(strings.TrimSpace(opts.Email))
	if opts.Email == "" {
		return issueTokenOptions{}, errors.New("--email is required")
	}
	if opts.UserID <= 0 {
		return issueTokenOptions{}, errors.New("--id must be positive")
	}
	if role != "" {
		r, ok := domainauth.ParseRole(role)
		if !ok {
			return issueTokenOptions{}, fmt.Errorf("unknown role %q", role)
		}
		opts.Role = r
	}
	return opts, nil
}

func runIssueToken(cmdCtx *commandContext, args []string) error {
	if !cmdCtx.Config.IsDev {
		return errors.New("issue-token is only available in development (set DEV=true)")
	}
	opts, err := parseIssueTokenFlags(args)
	if err != nil {
		return err
	}
	token, err := issueToken(cmdCtx.Config, opts)
	if err != nil {
		return err
	}
	return writef(cmdCtx.Out, "%s\n", token)
}

func issueToken(cfg config.AppConfig, opts issueTokenOptions) (string, error) {
	if opts.Role == "" {
		opts.Role = identityrules.New(cfg.Auth.Identity).Classify(opts.Email)
	}
	tokens, err := bootstrap.BuildTokenService(cfg.Auth.Session)
	if err != nil {
		return "", err
	}
	return tokens.Issue(subjectFor(opts))
}

//nolint:ireturn // the subject variant follows the requested role.
func subjectFor(opts issueTokenOptions) domainauth.Subject {
	name := opts.Name
	if name == "" {
		name = opts.Email
	}
	base := domainauth.SubjectBase{UserID: opts.UserID, Email: opts.Email, Name: name}

	switch opts.Role {
	case domainauth.RoleAdvisor, domainauth.RoleAdmin:
		code := opts.Code
		if code == "" {
			code = identityrules.DeriveCode(opts.Email, identityrules.AdvisorCodeLen)
		}
		advisor := domainauth.AdvisorSubject{SubjectBase: base, Codigo: code}
		if opts.Role == domainauth.RoleAdvisor {
			return advisor
		}
		studentID := opts.StudentID
		if studentID == 0 {
			studentID = opts.UserID
		}
		return domainauth.AdminSubject{AdvisorSubject: advisor, StudentID: studentID}
	default:
		code := opts.Code
		if code == "" {
			code = identityrules.DeriveCode(opts.Email, identityrules.MatriculaLen)
		}
		return domainauth.StudentSubject{SubjectBase: base, Matricula: code}
	}
}

func runClearAdvisorCache(cmdCtx *commandContext, _ []string) error {
	return withRedis(cmdCtx, func(ctx context.Context, client redis.UniversalClient) error {
		key := cmdCtx.Config.Cache.KeyPrefix + core.AdvisorDirectoryKey
		deleted, err := data.NewRedisCacheRepo(client).Delete(ctx, key)
		if err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
		if deleted {
			return writef(cmdCtx.Out, "deleted %s\n", key)
		}
		return writef(cmdCtx.Out, "%s was not cached\n", key)
	})
}
