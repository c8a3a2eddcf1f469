package memstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	_ "github.com/lib/pq" // load the postgres database driver

	"github.com/ldpworks/ldprepo/model"
	"github.com/ldpworks/ldprepo/services"
)

// SQLResourceStore is a Postgres-backed services.ResourceService storing
// resource metadata in columns and the whole dataset as JSON-in-SQL, following the
// ambient stack's own schema-per-resource convention: one table, created if
// missing, keyed by internal IRI.
type SQLResourceStore struct {
	db     *sql.DB
	schema string
}

// OpenSQLResourceStore opens (or creates) the resources table under schema
// in the database reachable at dataSourceName.
func OpenSQLResourceStore(dataSourceName, schema string) (*SQLResourceStore, error) {
	if schema == "" {
		schema = "public"
	}
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if schema != "public" {
		if _, err := db.Exec(`CREATE SCHEMA IF NOT EXISTS ` + schema + `;`); err != nil {
			return nil, err
		}
	}
	_, err = db.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.ldp_resources (
		iri varchar NOT NULL PRIMARY KEY,
		path varchar NOT NULL,
		model varchar NOT NULL,
		state int NOT NULL,
		last_modified timestamptz NOT NULL,
		created timestamptz NOT NULL,
		parent_iri varchar NOT NULL DEFAULT '',
		membership_iri varchar NOT NULL DEFAULT '',
		mime_type varchar NOT NULL DEFAULT '',
		size bigint NOT NULL DEFAULT 0,
		dataset json NOT NULL DEFAULT '{}'
	);`, schema))
	if err != nil {
		return nil, err
	}
	return &SQLResourceStore{db: db, schema: schema}, nil
}

var _ services.ResourceService = (*SQLResourceStore)(nil)

func (s *SQLResourceStore) table() string {
	return s.schema + ".ldp_resources"
}

// Get implements services.ResourceService.
func (s *SQLResourceStore) Get(ctx context.Context, iri string) (model.Resource, error) {
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT path, model, state, last_modified, created, parent_iri, membership_iri, mime_type, size, dataset
		 FROM %s WHERE iri=$1;`, s.table()), iri)

	var meta model.Metadata
	var datasetJSON []byte
	var modelStr string
	var state int
	meta.InternalIRI = iri
	err := row.Scan(&meta.Path, &modelStr, &state, &meta.LastModified, &meta.Created,
		&meta.ParentIRI, &meta.MembershipIRI, &meta.MIMEType, &meta.Size, &datasetJSON)
	if err == sql.ErrNoRows {
		return model.Resource{Metadata: model.Metadata{InternalIRI: iri, State: model.Missing}}, nil
	}
	if err != nil {
		return model.Resource{}, err
	}
	meta.Model = model.InteractionModel(modelStr)
	meta.State = model.State(state)

	var dataset model.Dataset
	if err := json.Unmarshal(datasetJSON, &dataset); err != nil {
		return model.Resource{}, err
	}
	return model.Resource{Metadata: meta, Dataset: dataset}, nil
}

func (s *SQLResourceStore) upsert(ctx context.Context, meta model.Metadata, dataset model.Dataset) error {
	datasetJSON, err := json.Marshal(dataset)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (iri, path, model, state, last_modified, created, parent_iri, membership_iri, mime_type, size, dataset)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (iri) DO UPDATE SET
			path=$2, model=$3, state=$4, last_modified=$5, parent_iri=$7, membership_iri=$8, mime_type=$9, size=$10, dataset=$11;
	`, s.table()), meta.InternalIRI, meta.Path, string(meta.Model), int(meta.State),
		meta.LastModified, meta.Created, meta.ParentIRI, meta.MembershipIRI, meta.MIMEType, meta.Size, datasetJSON)
	return err
}

// Create implements services.ResourceService.
func (s *SQLResourceStore) Create(ctx context.Context, meta model.Metadata, dataset model.Dataset) error {
	meta.State = model.Live
	return s.upsert(ctx, meta, dataset)
}

// Replace implements services.ResourceService.
func (s *SQLResourceStore) Replace(ctx context.Context, meta model.Metadata, dataset model.Dataset) error {
	meta.State = model.Live
	return s.upsert(ctx, meta, dataset)
}

// Delete implements services.ResourceService.
func (s *SQLResourceStore) Delete(ctx context.Context, iri string, when time.Time) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(
		`UPDATE %s SET state=$2, last_modified=$3 WHERE iri=$1;`, s.table()),
		iri, int(model.Deleted), when)
	return err
}

// Add implements services.ResourceService.
func (s *SQLResourceStore) Add(ctx context.Context, iri string, graph model.Graph, triples []model.Triple) error {
	r, err := s.Get(ctx, iri)
	if err != nil {
		return err
	}
	if r.Metadata.State == model.Missing {
		return fmt.Errorf("memstore: cannot add to unknown resource %s", iri)
	}
	if r.Dataset == nil {
		r.Dataset = model.NewDataset()
	}
	r.Dataset[graph] = append(r.Dataset[graph], triples...)
	return s.upsert(ctx, r.Metadata, r.Dataset)
}

// Touch implements services.ResourceService.
func (s *SQLResourceStore) Touch(ctx context.Context, iri string, when time.Time) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(
		`UPDATE %s SET last_modified=$2 WHERE iri=$1;`, s.table()), iri, when)
	return err
}

// GenerateIdentifier implements services.ResourceService.
func (s *SQLResourceStore) GenerateIdentifier() string {
	return uuid.NewString()
}

// SupportedInteractionModels implements services.ResourceService.
func (s *SQLResourceStore) SupportedInteractionModels() []model.InteractionModel {
	return []model.InteractionModel{
		model.Resource, model.RDFSource, model.NonRDFSource,
		model.Container, model.BasicContainer, model.DirectContainer, model.IndirectContainer,
	}
}
