package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// PgFTS implements Searcher using PostgreSQL full-text search as a fallback.
type PgFTS struct {
	db *sql.DB
}

// NewPgFTS creates a PostgreSQL FTS searcher.
func NewPgFTS(db *sql.DB) *PgFTS {
	return &PgFTS{db: db}
}

// Healthy always returns true: if Postgres is down, the whole app is down.
func (p *PgFTS) Healthy() bool {
	return true
}

// Search executes a UNION ALL query across people and meeting notes using
// plainto_tsquery and ts_rank, with ts_headline for snippets.
func (p *PgFTS) Search(q Query) ([]Result, int, error) {
	if strings.TrimSpace(q.Text) == "" {
		return nil, 0, nil
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	tsQuery := "plainto_tsquery('simple', $1)"
	args := []any{q.Text}
	argN := 2

	var subQueries []string

	if q.FilterType == "" || q.FilterType == ResultPerson {
		where := "p.fts @@ " + tsQuery
		if q.Chapter != "" {
			where += fmt.Sprintf(" AND p.chapter = $%d", argN)
			args = append(args, q.Chapter)
			argN++
		}
		subQueries = append(subQueries, fmt.Sprintf(`
			SELECT 'person'::text AS type, p.id,
				CASE WHEN p.display_name <> '' THEN p.display_name
				     ELSE trim(p.first_name || ' ' || p.last_name) END AS title,
				ts_headline('simple', coalesce(p.email, ''), %s, 'MaxFragments=1,MaxWords=30') AS snippet,
				p.id AS person_id, p.chapter, ''::text AS organizer_id,
				ts_rank(p.fts, %s) AS rank
			FROM people p
			WHERE %s`, tsQuery, tsQuery, where))
	}

	if q.FilterType == "" || q.FilterType == ResultNote {
		subQueries = append(subQueries, fmt.Sprintf(`
			SELECT 'note'::text AS type, m.id,
				CASE WHEN p.display_name <> '' THEN p.display_name
				     ELSE trim(p.first_name || ' ' || p.last_name) END AS title,
				ts_headline('simple', coalesce(m.note_text, ''), %s, 'MaxFragments=1,MaxWords=30') AS snippet,
				m.person_id, p.chapter, m.organizer_id,
				ts_rank(m.fts, %s) AS rank
			FROM meetings m
			JOIN people p ON p.id = m.person_id
			WHERE m.fts @@ %s`, tsQuery, tsQuery, tsQuery))
	}

	if len(subQueries) == 0 {
		return nil, 0, nil
	}

	union := strings.Join(subQueries, " UNION ALL ")

	countSQL := fmt.Sprintf("SELECT count(*) FROM (%s) sub", union)
	dataSQL := fmt.Sprintf(`SELECT type, id, title, snippet, person_id, chapter, organizer_id
		FROM (%s) sub
		ORDER BY rank DESC
		LIMIT %d OFFSET %d`, union, limit, offset)

	ctx := context.Background()

	var total int
	if err := p.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgfts count: %w", err)
	}

	rows, err := p.db.QueryContext(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgfts search: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var rtyp string
		if err := rows.Scan(&rtyp, &r.ID, &r.Title, &r.Snippet, &r.PersonID, &r.Chapter, &r.OrganizerID); err != nil {
			return nil, 0, fmt.Errorf("pgfts scan: %w", err)
		}
		r.Type = ResultType(rtyp)
		results = append(results, r)
	}
	return results, total, rows.Err()
}
