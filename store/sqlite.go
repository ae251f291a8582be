// Package store saves a class relation graph into a SQLite database so it
// can be queried with SQL.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dhamidi/javatree/graph"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS nodes (
	id       INTEGER PRIMARY KEY,
	name     TEXT NOT NULL UNIQUE,
	modifier TEXT NOT NULL DEFAULT '',
	file     TEXT NOT NULL DEFAULT '',
	line     INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS edges (
	source_id INTEGER NOT NULL REFERENCES nodes(id),
	target_id INTEGER NOT NULL REFERENCES nodes(id),
	relation  TEXT NOT NULL CHECK (relation IN ('extends', 'implements')),
	PRIMARY KEY (source_id, target_id, relation)
);
CREATE INDEX IF NOT EXISTS edges_target ON edges(target_id, relation);
`

const (
	RelationExtends    = "extends"
	RelationImplements = "implements"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Export writes g to the database at path, replacing what it held.
func Export(ctx context.Context, path string, g *graph.Graph) error {
	s, err := Open(path)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.Save(ctx, g)
}

// Save replaces the stored graph with g in a single transaction. Node ids
// are the graph's arena ids; an edge runs from the subclass or
// implementing class to its supertype.
func (s *Store) Save(ctx context.Context, g *graph.Graph) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM edges", "DELETE FROM nodes"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear: %w", err)
		}
	}

	insertNode, err := tx.PrepareContext(ctx, "INSERT INTO nodes (id, name, modifier, file, line) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer insertNode.Close()
	insertEdge, err := tx.PrepareContext(ctx, "INSERT INTO edges (source_id, target_id, relation) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer insertEdge.Close()

	nodes := g.Nodes()
	for _, n := range nodes {
		if _, err := insertNode.ExecContext(ctx, int64(n.ID()), n.Name(), n.Modifier(), n.File(), n.Line()); err != nil {
			return fmt.Errorf("insert node %s: %w", n.Name(), err)
		}
	}
	for _, n := range nodes {
		for _, p := range n.Parents() {
			if _, err := insertEdge.ExecContext(ctx, int64(n.ID()), int64(p.ID()), RelationExtends); err != nil {
				return fmt.Errorf("insert edge %s -> %s: %w", n.Name(), p.Name(), err)
			}
		}
		for _, i := range n.Interfaces() {
			if _, err := insertEdge.ExecContext(ctx, int64(n.ID()), int64(i.ID()), RelationImplements); err != nil {
				return fmt.Errorf("insert edge %s -> %s: %w", n.Name(), i.Name(), err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

const (
	relatedTargets = `SELECT t.name FROM edges e
JOIN nodes s ON s.id = e.source_id
JOIN nodes t ON t.id = e.target_id
WHERE s.name = ? AND e.relation = ?
ORDER BY t.name`
	relatedSources = `SELECT s.name FROM edges e
JOIN nodes s ON s.id = e.source_id
JOIN nodes t ON t.id = e.target_id
WHERE t.name = ? AND e.relation = ?
ORDER BY s.name`
)

// Related returns the names of the nodes linked to name by relation,
// sorted. With incoming set it answers "who extends name" instead of
// "what does name extend".
func (s *Store) Related(ctx context.Context, name, relation string, incoming bool) ([]string, error) {
	query := relatedTargets
	if incoming {
		query = relatedSources
	}
	rows, err := s.db.QueryContext(ctx, query, name, relation)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// Counts returns the number of stored nodes and edges.
func (s *Store) Counts(ctx context.Context) (nodes, edges int, err error) {
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM nodes").Scan(&nodes); err != nil {
		return 0, 0, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM edges").Scan(&edges); err != nil {
		return 0, 0, err
	}
	return nodes, edges, nil
}
