// Package orm binds table definitions to a ClickHouse database and exposes
// model handles for building, inserting, finding and deleting rows.
package orm

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"chorm/internal/ddl"
	"chorm/internal/schema"
	"chorm/internal/syncer"
)

// Executor runs SQL text. It is implemented by client.Client.
// Errors it returns are handed to callers unchanged.
type Executor interface {
	syncer.Executor
	Query(ctx context.Context, query string) ([]map[string]any, error)
}

// Options configure a Session.
type Options struct {
	Executor Executor
	// Database is the target database name, required.
	Database string
	// Engine is the database engine for CreateDatabase, ddl.DefaultEngine when empty.
	Engine string
	// Debug traces every generated statement to Logger at debug level.
	Debug bool
	// Logger receives schema drift warnings and, with Debug, the traces.
	// When nil it is slog.Default() with Debug set and a discard logger otherwise.
	Logger *slog.Logger
}

// Session binds an executor and a database to a registry of models.
type Session struct {
	exec     Executor
	database string
	engine   string
	logger   *slog.Logger
	debug    bool
	syncer   *syncer.Syncer

	mu      sync.Mutex
	models  map[string]*Model
	pending map[string]bool
}

// New validates opts and returns a Session. It does not touch the database.
func New(opts Options) (*Session, error) {
	if opts.Executor == nil {
		return nil, fmt.Errorf("%w: executor is required", ErrConfig)
	}
	if !schema.ValidIdentifier(opts.Database) {
		return nil, fmt.Errorf("%w: bad database name %q", ErrConfig, opts.Database)
	}
	engine := opts.Engine
	if engine == "" {
		engine = ddl.DefaultEngine
	}

	logger := opts.Logger
	switch {
	case logger != nil:
	case opts.Debug:
		logger = slog.Default()
	default:
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("database", opts.Database)

	sy := syncer.New(opts.Executor, logger)
	sy.Trace = opts.Debug

	return &Session{
		exec:     opts.Executor,
		database: opts.Database,
		engine:   engine,
		logger:   logger,
		debug:    opts.Debug,
		syncer:   sy,
		models:   make(map[string]*Model),
		pending:  make(map[string]bool),
	}, nil
}

func (s *Session) Database() string { return s.database }
func (s *Session) Engine() string   { return s.engine }

// Executor gives direct access to the client for hand-written SQL.
func (s *Session) Executor() Executor { return s.exec }

// CreateDatabase creates the session database if it does not exist.
func (s *Session) CreateDatabase(ctx context.Context) (sql.Result, error) {
	stmt := ddl.CreateDatabase(s.database, s.engine)
	if s.debug {
		s.logger.Debug("executing", "sql", stmt)
	}
	return s.exec.Exec(ctx, stmt)
}

// Model validates def, synchronizes the live table with it and registers the
// resulting handle under the table name. A table name can be registered once
// per Session; a failed registration leaves the registry untouched.
func (s *Session) Model(ctx context.Context, def schema.Definition) (*Model, error) {
	def.Columns = slices.Clone(def.Columns)
	if err := def.Validate(); err != nil {
		return nil, err
	}

	if err := s.reserve(def.Table); err != nil {
		return nil, err
	}
	registered := false
	defer func() {
		if !registered {
			s.release(def.Table)
		}
	}()

	res, err := s.syncer.Sync(ctx, s.database, &def)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("table synchronized", "table", def.Table, "action", res.Action.String())

	m := &Model{
		def:      &def,
		database: s.database,
		exec:     s.exec,
		logger:   s.logger.With("table", def.Table),
		debug:    s.debug,
		synced:   res.Action,
	}

	s.mu.Lock()
	delete(s.pending, def.Table)
	s.models[def.Table] = m
	s.mu.Unlock()
	registered = true
	return m, nil
}

func (s *Session) reserve(table string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.models[table]; ok || s.pending[table] {
		return fmt.Errorf("%w: %s", ErrModelExists, table)
	}
	s.pending[table] = true
	return nil
}

func (s *Session) release(table string) {
	s.mu.Lock()
	delete(s.pending, table)
	s.mu.Unlock()
}

// Models returns a snapshot of the registry keyed by table name.
func (s *Session) Models() map[string]*Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.models)
}

// Lookup returns the registered model for table.
func (s *Session) Lookup(table string) (*Model, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.models[table]
	return m, ok
}
