package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/agency-dashboard/infrastructure/database/postgres"
)

const (
	preferencesTable = "user_preferences up"
)

//go:generate mockgen -source=preference.go -destination=mocks/mock_preference.go -package=mocks

// PreferenceRepository guarda pares chave-valor de preferência (idioma, tema) por dono
type PreferenceRepository interface {
	GetPreference(ctx context.Context, owner, key string) (string, bool, error)
	SavePreference(ctx context.Context, owner, key, value string) error
}

type preferenceRepository struct {
	conn postgres.Queryer
}

func NewPreferenceRepository(conn postgres.Queryer) PreferenceRepository {
	return &preferenceRepository{
		conn: conn,
	}
}

func buildGetPreferenceQuery(owner, key string) (string, []interface{}, error) {
	return squirrel.
		Select("up.value").
		From(preferencesTable).
		Where(squirrel.Eq{"up.owner": owner, "up.key": key}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func buildSavePreferenceQuery(owner, key, value string) (string, []interface{}, error) {
	return squirrel.StatementBuilder.
		Insert("user_preferences").
		Columns("owner", "key", "value").
		Values(owner, key, value).
		Suffix(`
			ON CONFLICT (owner, key) DO UPDATE SET
				value = EXCLUDED.value,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func (r *preferenceRepository) GetPreference(ctx context.Context, owner, key string) (string, bool, error) {
	query, args, err := buildGetPreferenceQuery(owner, key)
	if err != nil {
		return "", false, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var value string
	if err := r.conn.QueryRow(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("erro ao buscar preferência: %w", err)
	}

	return value, true, nil
}

func (r *preferenceRepository) SavePreference(ctx context.Context, owner, key, value string) error {
	query, args, err := buildSavePreferenceQuery(owner, key, value)
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}
