package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/storedash/internal/domain/product"
	"github.com/xenking/storedash/internal/storage/postgres"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	progressEvery = 1_000_000
)

// exportRecord is one line of a gzipped JSONL catalog export. Upstream
// systems emit prices as strings to keep them exact.
type exportRecord struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	Image    string          `json:"image"`
	Status   string          `json:"status"`
}

const upsertProductSQL = `INSERT INTO products (id, name, price, currency, image, status)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		price = EXCLUDED.price,
		currency = EXCLUDED.currency,
		image = EXCLUDED.image,
		status = EXCLUDED.status`

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing *.jsonl.gz catalog exports")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, databaseURL); err != nil {
		slog.Error("catalog import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog import completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "*.jsonl.gz"))
	if err != nil {
		return errors.Wrap(err, "list export files")
	}
	if len(files) == 0 {
		return errors.Errorf("no *.jsonl.gz files in %s", dataDir)
	}

	slog.Info("importing catalog exports", slog.Int("files", len(files)))

	records, err := collectRecords(ctx, files)
	if err != nil {
		return errors.Wrap(err, "collect records")
	}

	slog.Info("unique products collected", slog.Int("count", len(records)))

	if len(records) == 0 {
		slog.Info("nothing to import")
		return nil
	}

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := writeProducts(ctx, pool, records); err != nil {
		return errors.Wrap(err, "write products to database")
	}

	return nil
}

// fileExport holds the records and the membership filter of one export file.
type fileExport struct {
	records map[int64]exportRecord
	filter  *bloom.BloomFilter
}

// collectRecords streams all export files concurrently and merges their
// records. A later file wins when two files disagree on a product. Each
// file also builds a bloom filter of its ids so the merge can report how
// much the exports overlap without comparing maps pairwise.
func collectRecords(ctx context.Context, files []string) (map[int64]exportRecord, error) {
	exports := make([]fileExport, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(readExportFile(ctx, i, f, exports))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[int64]exportRecord)
	for _, e := range exports {
		for id, rec := range e.records {
			merged[id] = rec
		}
	}

	if len(files) > 1 {
		slog.Info("exports merged",
			slog.Int("unique", len(merged)),
			slog.Int("shared", countShared(merged, exports)),
		)
	}

	return merged, nil
}

// countShared estimates how many merged ids appear in two or more export
// files. Bloom false positives can overcount slightly, which is fine for
// a log line.
func countShared(merged map[int64]exportRecord, exports []fileExport) int {
	shared := 0
	for id := range merged {
		key := strconv.FormatInt(id, 10)
		hits := 0
		for _, e := range exports {
			if e.filter.TestString(key) {
				hits++
			}
		}
		if hits >= 2 {
			shared++
		}
	}
	return shared
}

func readExportFile(ctx context.Context, idx int, path string, exports []fileExport) func() error {
	return func() error {
		filter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		records := make(map[int64]exportRecord)
		var count uint64

		if err := streamGzFile(ctx, path, func(line []byte) error {
			var rec exportRecord
			if err := json.Unmarshal(line, &rec); err != nil {
				return errors.Wrap(err, "parse record")
			}
			if err := validateRecord(rec); err != nil {
				return err
			}

			count++
			if count%progressEvery == 0 {
				slog.Info("import progress",
					slog.Int("file", idx+1),
					slog.Uint64("records", count),
				)
			}

			filter.AddString(strconv.FormatInt(rec.ID, 10))
			// Repeated id within one export: last record wins.
			records[rec.ID] = rec
			return nil
		}); err != nil {
			return errors.Wrapf(err, "read export file %s", path)
		}

		slog.Info("export file read",
			slog.Int("file", idx+1),
			slog.Uint64("records", count),
			slog.Int("unique", len(records)),
		)

		exports[idx] = fileExport{records: records, filter: filter}
		return nil
	}
}

func validateRecord(rec exportRecord) error {
	if rec.ID <= 0 {
		return errors.Errorf("record has invalid id %d", rec.ID)
	}
	if rec.Name == "" {
		return errors.Errorf("record %d has empty name", rec.ID)
	}
	if _, err := product.ParseStatus(rec.Status); err != nil {
		return errors.Wrapf(err, "record %d", rec.ID)
	}
	if _, err := product.ParseCurrency(rec.Currency); err != nil {
		return errors.Wrapf(err, "record %d", rec.ID)
	}
	return nil
}

// streamGzFile opens a gzip-compressed file and calls fn for each line.
func streamGzFile(ctx context.Context, path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(scanner.Bytes()) == 0 {
			continue
		}
		if err := fn(scanner.Bytes()); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}

func writeProducts(ctx context.Context, pool *pgxpool.Pool, records map[int64]exportRecord) error {
	slog.Info("writing products to database", slog.Int("count", len(records)))

	written := 0
	for _, rec := range records {
		if _, err := pool.Exec(ctx, upsertProductSQL,
			rec.ID, rec.Name, rec.Price, rec.Currency, rec.Image, rec.Status,
		); err != nil {
			return errors.Wrapf(err, "upsert product %d", rec.ID)
		}

		written++
		if written%100 == 0 || written == len(records) {
			slog.Info("write progress", slog.Int("written", written), slog.Int("total", len(records)))
		}
	}

	return nil
}
