package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoQueueSize = 4096
	mongoBatchSize = 50
	mongoFlushTick = 2 * time.Second
	mongoIOTimeout = 5 * time.Second
)

// LogDocument is one log line as stored in MongoDB.
type LogDocument struct {
	Time      time.Time `bson:"time"`
	Level     string    `bson:"level"`
	Msg       string    `bson:"msg"`
	RequestID string    `bson:"request_id,omitempty"`
	Attrs     bson.M    `bson:"attrs,omitempty"`
}

// batchWriter is the slice of *mongo.Collection the sink needs.
type batchWriter interface {
	InsertMany(ctx context.Context, docs []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
}

// mongoSink owns the queue and the single goroutine that drains it.
type mongoSink struct {
	w          batchWriter
	disconnect func(context.Context) error
	queue      chan LogDocument
	stop       chan struct{}
	stopped    chan struct{}
	once       sync.Once
}

func newMongoSink(w batchWriter, disconnect func(context.Context) error, tick time.Duration) *mongoSink {
	s := &mongoSink{
		w:          w,
		disconnect: disconnect,
		queue:      make(chan LogDocument, mongoQueueSize),
		stop:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}
	go s.loop(tick)
	return s
}

// enqueue never blocks; a full queue drops the record.
func (s *mongoSink) enqueue(doc LogDocument) {
	select {
	case s.queue <- doc:
	default:
	}
}

func (s *mongoSink) loop(tick time.Duration) {
	defer close(s.stopped)

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	batch := make([]interface{}, 0, mongoBatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), mongoIOTimeout)
		_, _ = s.w.InsertMany(ctx, batch)
		cancel()
		batch = batch[:0]
	}
	add := func(doc LogDocument) {
		batch = append(batch, doc)
		if len(batch) == mongoBatchSize {
			flush()
		}
	}

	for {
		select {
		case doc := <-s.queue:
			add(doc)
		case <-ticker.C:
			flush()
		case <-s.stop:
			for {
				select {
				case doc := <-s.queue:
					add(doc)
				default:
					flush()
					return
				}
			}
		}
	}
}

func (s *mongoSink) close() {
	s.once.Do(func() {
		close(s.stop)
		<-s.stopped
		if s.disconnect != nil {
			ctx, cancel := context.WithTimeout(context.Background(), mongoIOTimeout)
			defer cancel()
			_ = s.disconnect(ctx)
		}
	})
}

// MongoHandler is a slog.Handler that ships INFO and above to a MongoDB
// collection. Handle only enqueues; writes happen in batches off the request
// path.
type MongoHandler struct {
	sink   *mongoSink
	attrs  []slog.Attr
	prefix string // group path applied to record attrs
}

// NewMongoHandler connects to uri and starts the background writer. Call
// Close to flush and disconnect.
func NewMongoHandler(uri, db, collection string) (*MongoHandler, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).
		SetConnectTimeout(mongoIOTimeout).
		SetServerSelectionTimeout(mongoIOTimeout).
		SetMaxPoolSize(10))
	if err != nil {
		return nil, fmt.Errorf("mongo log sink: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo log sink: ping: %w", err)
	}

	col := client.Database(db).Collection(collection)
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "time", Value: -1}}},
		{Keys: bson.D{{Key: "request_id", Value: 1}}},
		{Keys: bson.D{{Key: "level", Value: 1}, {Key: "time", Value: -1}}},
	})

	return &MongoHandler{sink: newMongoSink(col, client.Disconnect, mongoFlushTick)}, nil
}

func (h *MongoHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= slog.LevelInfo }

func (h *MongoHandler) Handle(_ context.Context, r slog.Record) error {
	h.sink.enqueue(h.document(r))
	return nil
}

// document flattens the record and handler attrs into a LogDocument. Group
// names become dotted key prefixes and request_id is lifted to the top level.
func (h *MongoHandler) document(r slog.Record) LogDocument {
	doc := LogDocument{
		Time:  r.Time.UTC(),
		Level: r.Level.String(),
		Msg:   r.Message,
		Attrs: bson.M{},
	}

	var put func(prefix string, a slog.Attr)
	put = func(prefix string, a slog.Attr) {
		v := a.Value.Resolve()
		switch {
		case a.Key == "request_id" && prefix == "":
			doc.RequestID = v.String()
		case v.Kind() == slog.KindGroup:
			p := prefix
			if a.Key != "" {
				p += a.Key + "."
			}
			for _, ga := range v.Group() {
				put(p, ga)
			}
		case v.Kind() == slog.KindAny:
			if err, ok := v.Any().(error); ok {
				doc.Attrs[prefix+a.Key] = err.Error()
				return
			}
			doc.Attrs[prefix+a.Key] = v.Any()
		default:
			doc.Attrs[prefix+a.Key] = v.Any()
		}
	}

	for _, a := range h.attrs {
		put("", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		put(h.prefix, a)
		return true
	})

	if len(doc.Attrs) == 0 {
		doc.Attrs = nil
	}
	return doc
}

func (h *MongoHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	scoped := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	scoped = append(scoped, h.attrs...)
	for _, a := range attrs {
		if h.prefix != "" {
			a.Key = h.prefix + a.Key
		}
		scoped = append(scoped, a)
	}
	return &MongoHandler{sink: h.sink, attrs: scoped, prefix: h.prefix}
}

func (h *MongoHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &MongoHandler{sink: h.sink, attrs: h.attrs, prefix: h.prefix + name + "."}
}

// Close flushes queued records and disconnects. Safe to call more than once.
func (h *MongoHandler) Close() { h.sink.close() }

// MultiHandler sends each record to every handler that accepts its level.
type MultiHandler struct {
	handlers []slog.Handler
}

func NewMultiHandler(hs ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: hs}
}

func (m *MultiHandler) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var failed []string
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			failed = append(failed, err.Error())
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("logger: %s", strings.Join(failed, "; "))
	}
	return nil
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return m.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	return m.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (m *MultiHandler) each(fn func(slog.Handler) slog.Handler) *MultiHandler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = fn(h)
	}
	return &MultiHandler{handlers: hs}
}
