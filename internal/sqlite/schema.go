// Package sqlite implements the SQLite storage backend for the workbench.
// This file holds the schema DDL. See docs/ARCHITECTURE.md § Storage.
package sqlite

// Table DDL. The database file is the store of record, so every statement is
// idempotent (IF NOT EXISTS) and Attach never recreates the file.
const (
	createEntities = `CREATE TABLE IF NOT EXISTS entities (
    entity_id TEXT PRIMARY KEY,
    entity_type TEXT NOT NULL,
    title TEXT NOT NULL,
    slug TEXT NOT NULL,
    status TEXT NOT NULL,
    summary TEXT,
    fields TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createLinks = `CREATE TABLE IF NOT EXISTS links (
    link_id TEXT PRIMARY KEY,
    link_type TEXT NOT NULL,
    source_type TEXT NOT NULL,
    source_id TEXT NOT NULL,
    target_type TEXT NOT NULL,
    target_id TEXT NOT NULL,
    notes TEXT,
    position INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);`

	createEvidence = `CREATE TABLE IF NOT EXISTS evidence (
    evidence_id TEXT PRIMARY KEY,
    entity_type TEXT NOT NULL,
    entity_id TEXT NOT NULL,
    evidence_type TEXT NOT NULL,
    title TEXT,
    content TEXT,
    source_url TEXT,
    confidence REAL NOT NULL,
    supports INTEGER NOT NULL,
    created_at TEXT NOT NULL
);`

	createFeedback = `CREATE TABLE IF NOT EXISTS feedback (
    feedback_id TEXT PRIMARY KEY,
    entity_type TEXT NOT NULL,
    entity_id TEXT NOT NULL,
    hat_type TEXT NOT NULL,
    feedback_type TEXT NOT NULL,
    content TEXT,
    supports INTEGER,
    created_at TEXT NOT NULL
);`

	createStages = `CREATE TABLE IF NOT EXISTS stages (
    stage_id TEXT PRIMARY KEY,
    journey_id TEXT NOT NULL,
    name TEXT NOT NULL,
    sequence INTEGER NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createTouchpoints = `CREATE TABLE IF NOT EXISTS touchpoints (
    touchpoint_id TEXT PRIMARY KEY,
    stage_id TEXT NOT NULL,
    name TEXT NOT NULL,
    channel TEXT NOT NULL,
    sequence INTEGER NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`
)

// Index DDL. The unique link index backs the sync layer's uniqueness
// invariant; deletions are issued before insertions so a reconciliation can
// never collide with it.
const (
	idxEntitiesTypeSlug = `CREATE UNIQUE INDEX IF NOT EXISTS idx_entities_type_slug ON entities(entity_type, slug);`
	idxEntitiesType     = `CREATE INDEX IF NOT EXISTS idx_entities_type ON entities(entity_type);`
	idxEntitiesStatus   = `CREATE INDEX IF NOT EXISTS idx_entities_status ON entities(status);`
	idxLinksUnique      = `CREATE UNIQUE INDEX IF NOT EXISTS idx_links_unique ON links(link_type, source_type, source_id, target_type, target_id);`
	idxLinksSource      = `CREATE INDEX IF NOT EXISTS idx_links_source ON links(link_type, source_type, source_id, target_type);`
	idxLinksTarget      = `CREATE INDEX IF NOT EXISTS idx_links_target ON links(link_type, target_type, target_id, source_type);`
	idxEvidenceEntity   = `CREATE INDEX IF NOT EXISTS idx_evidence_entity ON evidence(entity_type, entity_id);`
	idxFeedbackEntity   = `CREATE INDEX IF NOT EXISTS idx_feedback_entity ON feedback(entity_type, entity_id);`
	idxStagesJourney    = `CREATE INDEX IF NOT EXISTS idx_stages_journey ON stages(journey_id, sequence);`
	idxTouchpointsStage = `CREATE INDEX IF NOT EXISTS idx_touchpoints_stage ON touchpoints(stage_id, sequence);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createEntities,
	createLinks,
	createEvidence,
	createFeedback,
	createStages,
	createTouchpoints,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxEntitiesTypeSlug,
	idxEntitiesType,
	idxEntitiesStatus,
	idxLinksUnique,
	idxLinksSource,
	idxLinksTarget,
	idxEvidenceEntity,
	idxFeedbackEntity,
	idxStagesJourney,
	idxTouchpointsStage,
}
