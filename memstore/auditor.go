package memstore

import (
	"context"
	"time"

	"github.com/ldpworks/ldprepo/model"
	"github.com/ldpworks/ldprepo/services"
)

// audit vocabulary predicates, scoped under a reserved IRI so they never
// collide with a user-managed graph's own predicates.
const (
	auditNS         = "urn:ldprepo:audit#"
	predActor       = auditNS + "actor"
	predOperation   = auditNS + "operation"
	predTimestamp   = auditNS + "timestamp"
)

// Auditor implements services.AuditService, deriving a small fixed-shape
// audit quad set per mutation.
type Auditor struct{}

// NewAuditor returns a ready-to-use Auditor.
func NewAuditor() *Auditor { return &Auditor{} }

var _ services.AuditService = (*Auditor)(nil)

func (a *Auditor) quads(meta model.Metadata, agentIRI, operation string) []model.Triple {
	subject := model.IRITerm(meta.InternalIRI)
	return []model.Triple{
		{Subject: subject, Predicate: model.IRITerm(predActor), Object: model.IRITerm(agentIRI)},
		{Subject: subject, Predicate: model.IRITerm(predOperation), Object: model.LiteralTerm(operation, "", "")},
		{Subject: subject, Predicate: model.IRITerm(predTimestamp), Object: model.LiteralTerm(meta.LastModified.UTC().Format(time.RFC3339), "http://www.w3.org/2001/XMLSchema#dateTime", "")},
	}
}

// Creation implements services.AuditService.
func (a *Auditor) Creation(ctx context.Context, meta model.Metadata, agentIRI string) []model.Triple {
	return a.quads(meta, agentIRI, "Create")
}

// Update implements services.AuditService.
func (a *Auditor) Update(ctx context.Context, meta model.Metadata, agentIRI string) []model.Triple {
	return a.quads(meta, agentIRI, "Update")
}

// Deletion implements services.AuditService.
func (a *Auditor) Deletion(ctx context.Context, meta model.Metadata, agentIRI string) []model.Triple {
	return a.quads(meta, agentIRI, "Delete")
}
