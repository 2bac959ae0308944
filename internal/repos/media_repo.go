package repos

import "github.com/jmoiron/sqlx"

// MediaRepo tracks the library of image references, ordered by insertion.
type MediaRepo struct{ db *sqlx.DB }

func NewMediaRepo(db *sqlx.DB) *MediaRepo { return &MediaRepo{db: db} }

func (r *MediaRepo) List() ([]string, error) {
	var out []string
	err := r.db.Select(&out, `SELECT path FROM media ORDER BY seq`)
	return out, err
}

// Add appends a path if it is not already present.
func (r *MediaRepo) Add(path string) error {
	_, err := r.db.Exec(`INSERT INTO media(path) VALUES(?) ON CONFLICT(path) DO NOTHING`, path)
	return err
}
