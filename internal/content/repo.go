package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// the document is a singleton, every row operation pins this id
const singletonID = 1

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Get(ctx context.Context) (SiteContent, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT content FROM site_content WHERE id = $1;`,
		singletonID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		// nothing stored yet
		return SiteContent{}, nil
	}

	var contentJson []byte
	if err := rows.Scan(&contentJson); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	var siteContent SiteContent
	if err := json.Unmarshal(contentJson, &siteContent); err != nil {
		return nil, fmt.Errorf("unmarshal stored content: %w", err)
	}

	return siteContent, nil
}

func (r *Repo) Update(ctx context.Context, partial SiteContent) error {
	if len(partial) == 0 {
		return errors.New("content update empty")
	}

	partialJson, err := json.Marshal(partial)
	if err != nil {
		return fmt.Errorf("marshal content update: %w", err)
	}

	// jsonb || merges per field, fields absent from the update are kept
	_, err = r.db.Exec(
		ctx,
		`
			INSERT INTO site_content (id, content) VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE
			SET content = site_content.content || EXCLUDED.content;`,
		singletonID, partialJson,
	)
	return err
}
