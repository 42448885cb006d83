// Package sqlite implements the relational store for the pipeline: a thin
// database/sql wrapper over modernc.org/sqlite plus the normalized schema
// for the three entity tables and the check_results audit table.
package sqlite

// Entity table names.
const (
	PostsTable        = "posts"
	TagsTable         = "tags"
	PostsTagsTable    = "posts_tags"
	CheckResultsTable = "check_results"
)

// Schema DDL. Tables are recreated (drop-if-exists then create) rather than
// migrated; every run rebuilds the warehouse from scratch.
const (
	createPosts = `CREATE TABLE IF NOT EXISTS posts
(
    Id                    INTEGER PRIMARY KEY,
    PostTypeId            INTEGER NOT NULL,
    AcceptedAnswerId      INTEGER,
    CreationDate          TIMESTAMP,
    Score                 INTEGER NOT NULL,
    ViewCount             INTEGER,
    Body                  TEXT NOT NULL,
    OwnerUserId           INTEGER,
    LastEditorUserId      INTEGER,
    LastEditDate          TIMESTAMP,
    LastActivityDate      TIMESTAMP NOT NULL,
    Title                 TEXT,
    Tags                  TEXT,
    AnswerCount           INTEGER,
    CommentCount          INTEGER NOT NULL,
    FavoriteCount         INTEGER,
    ContentLicense        TEXT NOT NULL,
    ParentId              INTEGER,
    ClosedDate            TIMESTAMP,
    CommunityOwnedDate    TIMESTAMP,
    LastEditorDisplayName TEXT,
    OwnerDisplayName      TEXT,
    FOREIGN KEY (AcceptedAnswerId) REFERENCES posts (Id),
    FOREIGN KEY (ParentId) REFERENCES posts (Id)
);`

	createTags = `CREATE TABLE IF NOT EXISTS tags
(
    Id            INTEGER PRIMARY KEY,
    TagName       TEXT UNIQUE NOT NULL,
    Count         INTEGER NOT NULL,
    ExcerptPostId INTEGER,
    WikiPostId    INTEGER,
    FOREIGN KEY (ExcerptPostId) REFERENCES posts (Id),
    FOREIGN KEY (WikiPostId) REFERENCES posts (Id)
);`

	createPostsTags = `CREATE TABLE IF NOT EXISTS posts_tags
(
    PostId  INTEGER NOT NULL,
    TagId   INTEGER NOT NULL,
    TagName TEXT NOT NULL,
    FOREIGN KEY (PostId) REFERENCES posts (Id),
    FOREIGN KEY (TagId) REFERENCES tags (Id),
    UNIQUE (PostId, TagId)
);`

	createCheckResults = `CREATE TABLE IF NOT EXISTS check_results
(
    check_level        TEXT NOT NULL,
    check_name         TEXT NOT NULL,
    "constraint"       TEXT NOT NULL,
    constraint_status  TEXT NOT NULL,
    constraint_message TEXT,
    run_id             TEXT,
    recorded_at        TIMESTAMP
);`
)

// entityDDL lists the entity CREATE statements in dependency order; posts
// first because tags and posts_tags reference it.
var entityDDL = []struct {
	name   string
	create string
}{
	{PostsTable, createPosts},
	{TagsTable, createTags},
	{PostsTagsTable, createPostsTags},
}

// RecreateEntityTables drops and recreates the three entity tables. Drops
// run in reverse dependency order so the statements stay valid if foreign
// key enforcement is ever switched on.
func (d *Database) RecreateEntityTables() error {
	for i := len(entityDDL) - 1; i >= 0; i-- {
		if err := d.Execute(`DROP TABLE IF EXISTS ` + entityDDL[i].name); err != nil {
			return err
		}
	}
	for _, t := range entityDDL {
		if err := d.Execute(t.create); err != nil {
			return err
		}
	}
	return nil
}

// RecreateCheckResults drops and recreates the audit table.
func (d *Database) RecreateCheckResults() error {
	if err := d.Execute(`DROP TABLE IF EXISTS ` + CheckResultsTable); err != nil {
		return err
	}
	return d.Execute(createCheckResults)
}
