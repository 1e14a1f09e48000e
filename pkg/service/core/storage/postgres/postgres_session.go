package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/datamesh/mesh-console/pkg/auth"
	"github.com/datamesh/mesh-console/pkg/database"
	"github.com/datamesh/mesh-console/pkg/errs"
	"github.com/lib/pq"
)

var _ auth.SessionStore = &sessionStorage{}

type sessionStorage struct {
	db *database.Repo
}

func (s *sessionStorage) CreateSession(ctx context.Context, session *auth.Session) error {
	const op errs.Op = "sessionStorage.CreateSession"

	_, err := s.db.GetDB().ExecContext(ctx, `INSERT INTO session (token, id_token, refresh_token, username, email, domain_ids, expires)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		session.Token,
		session.IDToken,
		session.RefreshToken,
		session.Username,
		session.Email,
		pq.Array(session.DomainIDs),
		session.Expires,
	)
	if err != nil {
		return errs.E(errs.Database, op, errs.UserName(session.Username), err)
	}

	return nil
}

func (s *sessionStorage) GetSession(ctx context.Context, token string) (*auth.Session, error) {
	const op errs.Op = "sessionStorage.GetSession"

	row := &sessionRow{}

	err := s.db.GetDB().QueryRowContext(ctx, `SELECT token, id_token, refresh_token, username, email, domain_ids, created, expires
		FROM session WHERE token = $1`, token).
		Scan(&row.Token, &row.IDToken, &row.RefreshToken, &row.Username, &row.Email, pq.Array(&row.DomainIDs), &row.Created, &row.Expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.E(errs.NotExist, op, errs.Parameter("token"), err)
		}

		return nil, errs.E(errs.Database, op, err)
	}

	session, err := From(row)
	if err != nil {
		return nil, errs.E(errs.Internal, op, err)
	}

	return session, nil
}

func (s *sessionStorage) UpdateSessionTokens(ctx context.Context, token, idToken, refreshToken string, expires time.Time) error {
	const op errs.Op = "sessionStorage.UpdateSessionTokens"

	res, err := s.db.GetDB().ExecContext(ctx, `UPDATE session SET id_token = $2,
		refresh_token = CASE WHEN $3 = '' THEN refresh_token ELSE $3 END, expires = $4 WHERE token = $1`,
		token, idToken, refreshToken, expires)
	if err != nil {
		return errs.E(errs.Database, op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errs.E(errs.Database, op, err)
	}

	if n == 0 {
		return errs.E(errs.NotExist, op, errs.Parameter("token"), errs.Str("session not found"))
	}

	return nil
}

func (s *sessionStorage) DeleteSession(ctx context.Context, token string) error {
	const op errs.Op = "sessionStorage.DeleteSession"

	_, err := s.db.GetDB().ExecContext(ctx, `DELETE FROM session WHERE token = $1`, token)
	if err != nil {
		return errs.E(errs.Database, op, err)
	}

	return nil
}

// DeleteExpiredSessions removes sessions that expired more than grace ago.
func (s *sessionStorage) DeleteExpiredSessions(ctx context.Context, grace time.Duration) (int64, error) {
	const op errs.Op = "sessionStorage.DeleteExpiredSessions"

	res, err := s.db.GetDB().ExecContext(ctx, `DELETE FROM session WHERE expires < $1`, time.Now().Add(-grace))
	if err != nil {
		return 0, errs.E(errs.Database, op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, errs.E(errs.Database, op, err)
	}

	return n, nil
}

type sessionRow struct {
	Token        string
	IDToken      string
	RefreshToken string
	Username     string
	Email        string
	DomainIDs    []string
	Created      time.Time
	Expires      time.Time
}

func (r *sessionRow) To() (*auth.Session, error) {
	return &auth.Session{
		Token:        r.Token,
		IDToken:      r.IDToken,
		RefreshToken: r.RefreshToken,
		Username:     r.Username,
		Email:        r.Email,
		DomainIDs:    r.DomainIDs,
		Created:      r.Created,
		Expires:      r.Expires,
	}, nil
}

func NewSessionStorage(db *database.Repo) *sessionStorage {
	return &sessionStorage{
		db: db,
	}
}
