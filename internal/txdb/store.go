package txdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"
)

// Store is a DuckDB-backed Provider using a UTA-like schema.
type Store struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// Open opens or creates a DuckDB database at the given path and ensures
// the schema exists. Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := NewStore(db)
	s.path = path
	if err := s.CreateSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// NewStore wraps an existing connection. The schema is not created.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, logger: zap.NewNop()}
}

// SetLogger sets the logger for debug messages.
func (s *Store) SetLogger(l *zap.Logger) {
	s.logger = l
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// CreateSchema creates the tables if they don't exist.
func (s *Store) CreateSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS tx_info (
			ac VARCHAR PRIMARY KEY,
			gene VARCHAR,
			descr VARCHAR,
			summary VARCHAR,
			strand TINYINT,
			cds_start_i BIGINT,
			cds_end_i BIGINT
		);

		CREATE TABLE IF NOT EXISTS tx_exons (
			ac VARCHAR,
			ref VARCHAR,
			ord INTEGER,
			name VARCHAR,
			t_start_i BIGINT,
			t_end_i BIGINT,
			g_start_i BIGINT,
			g_end_i BIGINT,
			g_cigar VARCHAR,
			PRIMARY KEY (ac, ref, ord)
		);

		CREATE INDEX IF NOT EXISTS idx_tx_exons_ac_ref ON tx_exons(ac, ref);
	`
	_, err := s.db.Exec(schema)
	return err
}

// InsertTranscript inserts or replaces transcript metadata.
func (s *Store) InsertTranscript(info *TranscriptInfo) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO tx_info (ac, gene, descr, summary, strand, cds_start_i, cds_end_i)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, info.Accession, nullString(info.Gene), nullString(info.Description), nullString(info.Summary),
		nullStrand(info.Strand), info.CDSStart, info.CDSEnd)
	if err != nil {
		return fmt.Errorf("insert transcript %s: %w", info.Accession, err)
	}
	return nil
}

// InsertExons inserts exon alignments in a single transaction.
func (s *Store) InsertExons(exons []ExonAlignment) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin exon insert: %w", err)
	}
	for _, e := range exons {
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO tx_exons (ac, ref, ord, name, t_start_i, t_end_i, g_start_i, g_end_i, g_cigar)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, e.Accession, e.Reference, e.Ord, nullString(e.Name),
			e.TStart, e.TEnd, e.GStart, e.GEnd, e.Cigar)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert exon %s/%s#%d: %w", e.Accession, e.Reference, e.Ord, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit exon insert: %w", err)
	}
	s.logger.Debug("inserted exon alignments", zap.Int("count", len(exons)))
	return nil
}

// TranscriptInfo returns the metadata for ac, or nil if not found.
func (s *Store) TranscriptInfo(ac string) (*TranscriptInfo, error) {
	row := s.db.QueryRow(`
		SELECT ac, gene, descr, summary, strand, cds_start_i, cds_end_i
		FROM tx_info
		WHERE ac = ?
	`, ac)

	ti := &TranscriptInfo{}
	var gene, descr, summary sql.NullString
	var strand, cdsStart, cdsEnd sql.NullInt64
	err := row.Scan(&ti.Accession, &gene, &descr, &summary, &strand, &cdsStart, &cdsEnd)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan transcript %s: %w", ac, err)
	}

	ti.Gene = gene.String
	ti.Description = descr.String
	ti.Summary = summary.String
	ti.Strand = int8(strand.Int64)
	ti.CDSStart = int(cdsStart.Int64)
	ti.CDSEnd = int(cdsEnd.Int64)
	return ti, nil
}

// TranscriptExons returns the exons of ac aligned to ref, ordered by genomic start.
func (s *Store) TranscriptExons(ac, ref string) ([]ExonAlignment, error) {
	rows, err := s.db.Query(`
		SELECT ac, ref, ord, name, t_start_i, t_end_i, g_start_i, g_end_i, g_cigar
		FROM tx_exons
		WHERE ac = ? AND ref = ?
		ORDER BY g_start_i
	`, ac, ref)
	if err != nil {
		return nil, fmt.Errorf("query exons: %w", err)
	}
	defer rows.Close()

	var exons []ExonAlignment
	for rows.Next() {
		var e ExonAlignment
		var name sql.NullString
		err := rows.Scan(&e.Accession, &e.Reference, &e.Ord, &name,
			&e.TStart, &e.TEnd, &e.GStart, &e.GEnd, &e.Cigar)
		if err != nil {
			return nil, fmt.Errorf("scan exon: %w", err)
		}
		e.Name = name.String
		exons = append(exons, e)
	}
	return exons, rows.Err()
}

// TranscriptCount returns the number of transcripts in the database.
func (s *Store) TranscriptCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM tx_info").Scan(&count)
	return count, err
}

// References returns the sorted list of references ac has exon alignments on.
func (s *Store) References(ac string) ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT ref FROM tx_exons WHERE ac = ? ORDER BY ref", ac)
	if err != nil {
		return nil, fmt.Errorf("query references: %w", err)
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// nullString returns nil if s is empty, otherwise s.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// nullStrand returns nil for an unknown strand.
func nullStrand(strand int8) interface{} {
	if strand == 0 {
		return nil
	}
	return strand
}

// IsDuckDB checks if a path looks like a DuckDB database file.
func IsDuckDB(path string) bool {
	return strings.HasSuffix(path, ".duckdb") || strings.HasSuffix(path, ".db")
}
