package sqlite

import (
	"context"
	"database/sql"

	"github.com/tcsservices/loginportal/internal/portal/domain"
)

type usersRepo struct {
	db *sql.DB
}

const userColumns = `username, permissions, power_unit,
	companykey01, companykey02, companykey03, companykey04, companykey05,
	module01, module02, module03, module04, module05,
	module06, module07, module08, module09, module10`

// Username and password columns carry the default BINARY collation, so
// both matches below are case-sensitive. That is the legacy contract:
// "Driver1" and "driver1" are different accounts.
func (r *usersRepo) GetByCredentials(ctx context.Context, username, password string) (domain.UserProfile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ? AND password = ?`,
		username, password)
	return scanUser(row)
}

func (r *usersRepo) GetByUsername(ctx context.Context, username string) (domain.UserProfile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`,
		username)
	return scanUser(row)
}

// GetCompanies returns all five slots in order, empties included, so the
// caller can rewrite them positionally.
func (r *usersRepo) GetCompanies(ctx context.Context, username string) ([]string, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT companykey01, companykey02, companykey03, companykey04, companykey05
		 FROM users WHERE username = ?`,
		username)

	slots := make([]string, domain.MaxCompanySlots)
	ptrs := make([]any, domain.MaxCompanySlots)
	for i := range slots {
		ptrs[i] = &slots[i]
	}
	if err := row.Scan(ptrs...); err != nil {
		return nil, mapNotFound(err)
	}
	return slots, nil
}

func (r *usersRepo) UpdateCompanies(ctx context.Context, username string, companies []string) error {
	padded := padSlots(companies, domain.MaxCompanySlots)

	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET
			companykey01 = ?, companykey02 = ?, companykey03 = ?,
			companykey04 = ?, companykey05 = ?
		 WHERE username = ?`,
		padded[0], padded[1], padded[2], padded[3], padded[4], username)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}

func (r *usersRepo) Create(ctx context.Context, cred domain.Credential) error {
	companies := padSlots(cred.Companies, domain.MaxCompanySlots)
	modules := padSlots(cred.Modules, domain.MaxModuleSlots)

	args := []any{cred.Username, cred.Password, cred.Permissions, cred.PowerUnit}
	for _, c := range companies {
		args = append(args, c)
	}
	for _, m := range modules {
		args = append(args, m)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (
			username, password, permissions, power_unit,
			companykey01, companykey02, companykey03, companykey04, companykey05,
			module01, module02, module03, module04, module05,
			module06, module07, module08, module09, module10
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args...)
	return err
}

func scanUser(row *sql.Row) (domain.UserProfile, error) {
	var (
		username    string
		permissions bool
		powerUnit   string
	)
	companies := make([]string, domain.MaxCompanySlots)
	modules := make([]string, domain.MaxModuleSlots)

	dest := []any{&username, &permissions, &powerUnit}
	for i := range companies {
		dest = append(dest, &companies[i])
	}
	for i := range modules {
		dest = append(dest, &modules[i])
	}

	if err := row.Scan(dest...); err != nil {
		return domain.UserProfile{}, mapNotFound(err)
	}

	return domain.UserProfile{
		Username:    username,
		Permissions: permissions,
		PowerUnit:   powerUnit,
		Companies:   compactSlots(companies),
		Modules:     compactSlots(modules),
	}, nil
}

func padSlots(in []string, size int) []string {
	out := make([]string, size)
	copy(out, in)
	return out
}

func compactSlots(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
