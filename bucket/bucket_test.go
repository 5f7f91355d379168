package bucket

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/rotblauer/av2kml/params"
)

type fakeS3 struct {
	s3iface.S3API
	objects map[string][]byte
	lists   atomic.Int64
}

func (f *fakeS3) ListObjectsV2PagesWithContext(ctx aws.Context, in *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool, _ ...request.Option) error {
	f.lists.Add(1)
	prefix := aws.StringValue(in.Prefix)
	out := &s3.ListObjectsV2Output{}
	seen := map[string]bool{}
	var keys []string
	for k := range f.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		rest := k[len(prefix):]
		if i := strings.Index(rest, "/"); i >= 0 {
			cp := prefix + rest[:i+1]
			if !seen[cp] {
				seen[cp] = true
				out.CommonPrefixes = append(out.CommonPrefixes, &s3.CommonPrefix{Prefix: aws.String(cp)})
			}
			continue
		}
		out.Contents = append(out.Contents, &s3.Object{Key: aws.String(k)})
	}
	fn(out, true)
	return nil
}

type fakeDownloader struct {
	s3manageriface.DownloaderAPI
	objects map[string][]byte
	calls   atomic.Int64
}

func (f *fakeDownloader) DownloadWithContext(ctx aws.Context, w io.WriterAt, in *s3.GetObjectInput, _ ...func(*s3manager.Downloader)) (int64, error) {
	f.calls.Add(1)
	data, ok := f.objects[aws.StringValue(in.Key)]
	if !ok {
		return 0, errors.New("NoSuchKey")
	}
	n, err := w.WriteAt(data, 0)
	return int64(n), err
}

type memCatalog struct {
	mu   sync.Mutex
	data map[string]string
}

func (c *memCatalog) Lookup(split, id string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[split+"/"+id]
	return v, ok, nil
}

func (c *memCatalog) Record(split, id, mapFile string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[split+"/"+id] = mapFile
	return nil
}

const sensor = "datasets/av2/sensor/"

func sensorObjects() map[string][]byte {
	return map[string][]byte{
		sensor + "test/log-a/city_SE3_egovehicle.feather":                  []byte("pose-a"),
		sensor + "test/log-a/map/log_map_archive_log-a____DTW_city_1.json": []byte(`{}`),
		sensor + "test/log-a/map/log-a_ground_height_surface____DTW.npy":   []byte("npy"),
		sensor + "test/log-b/city_SE3_egovehicle.feather":                  []byte("pose-b"),
		sensor + "test/log-b/map/log_map_archive_log-b____PIT_city_2.json": []byte(`{}`),
		sensor + "val/log-c/city_SE3_egovehicle.feather":                   []byte("pose-c"),
		sensor + "val/log-c/map/log_map_archive_log-c____DTW_city_3.json":  []byte(`{}`),
		sensor + "val/log-c/sensors/cameras/ring_front_center/0.jpg":       []byte("jpg"),
	}
}

func newFakeBucket(objects map[string][]byte) (*Bucket, *fakeS3, *fakeDownloader) {
	s := &fakeS3{objects: objects}
	d := &fakeDownloader{objects: objects}
	return NewWithClients("argoverse", s, d), s, d
}

func TestListPrefixesAndKeys(t *testing.T) {
	b, _, _ := newFakeBucket(sensorObjects())
	ids, err := b.ListPrefixes(context.Background(), sensor+"test/")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(ids, ",") != "log-a,log-b" {
		t.Errorf("Expected [log-a log-b], got %v", ids)
	}
	keys, err := b.ListKeys(context.Background(), sensor+"test/log-a/map/")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 {
		t.Errorf("Expected 2 map keys, got %v", keys)
	}
}

func TestDownloadSkipsExisting(t *testing.T) {
	b, _, d := newFakeBucket(sensorObjects())
	local := filepath.Join(t.TempDir(), "test", "log-a", params.PoseFileName)
	key := sensor + "test/log-a/city_SE3_egovehicle.feather"

	skipped, n, err := b.Download(context.Background(), key, local)
	if err != nil || skipped || n != 6 {
		t.Fatalf("unexpected first download %v %d %v", skipped, n, err)
	}
	got, _ := os.ReadFile(local)
	if string(got) != "pose-a" {
		t.Errorf("Expected pose-a, got %q", got)
	}
	skipped, _, err = b.Download(context.Background(), key, local)
	if err != nil || !skipped {
		t.Errorf("Expected skip, got %v %v", skipped, err)
	}
	if d.calls.Load() != 1 {
		t.Errorf("Expected 1 download call, got %d", d.calls.Load())
	}

	missing := filepath.Join(filepath.Dir(local), "missing")
	if _, _, err := b.Download(context.Background(), sensor+"nope", missing); err == nil {
		t.Error("Expected error for missing key")
	}
	entries, _ := os.ReadDir(filepath.Dir(local))
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestSensorPlan(t *testing.T) {
	dir := t.TempDir()
	b, s, _ := newFakeBucket(sensorObjects())
	cat := &memCatalog{data: map[string]string{}}
	plan := NewSensorPlan(b, params.DefaultBucketConfig(), dir)
	plan.Splits = []string{"test", "val"}
	plan.Catalog = cat

	found, err := plan.Discover(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(found["test"]) != 1 || found["test"][0].ID != "log-a" {
		t.Fatalf("Expected only log-a in test, got %+v", found["test"])
	}
	if found["val"][0].MapFile != "log_map_archive_log-c____DTW_city_3.json" {
		t.Errorf("unexpected map file %+v", found["val"])
	}
	if v, ok, _ := cat.Lookup("test", "log-b"); !ok || v != "" {
		t.Errorf("non-Detroit log should be cataloged as empty, got %q %v", v, ok)
	}

	lists := s.lists.Load()
	if _, err := plan.Discover(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := s.lists.Load() - lists; got != 2 {
		t.Errorf("cataloged rerun should only list splits, got %d listings", got)
	}

	if err := plan.Download(context.Background(), found); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{
		"test/log-a/city_SE3_egovehicle.feather",
		"test/log-a/map/log_map_archive_log-a____DTW_city_1.json",
		"val/log-c/map/log_map_archive_log-c____DTW_city_3.json",
	} {
		if _, err := os.Stat(filepath.Join(dir, p)); err != nil {
			t.Errorf("Expected %s: %v", p, err)
		}
	}
	if snap := plan.Stats.Snapshot(); snap.Downloaded != 2 || snap.Failed != 0 {
		t.Errorf("unexpected stats %+v", snap)
	}

	plan.Stats = Stats{}
	if err := plan.Download(context.Background(), found); err != nil {
		t.Fatal(err)
	}
	if snap := plan.Stats.Snapshot(); snap.Skipped != 2 || snap.Downloaded != 0 {
		t.Errorf("Expected all skipped on rerun, got %+v", snap)
	}
}

func TestForecastingPlanAndManifest(t *testing.T) {
	fc := "datasets/av2/motion-forecasting/"
	objects := map[string][]byte{
		fc + "test/s1/log_map_archive_s1.json": []byte(`{"lane_segments": {}}`),
		fc + "test/s1/scenario_s1.parquet":     []byte("pq"),
		fc + "test/s2/log_map_archive_s2.json": []byte(`{}`),
		fc + "test/s3/scenario_s3.parquet":     []byte("pq"),
	}
	dir := t.TempDir()
	b, _, _ := newFakeBucket(objects)
	plan := NewForecastingPlan(b, params.DefaultBucketConfig(), dir)

	found, err := plan.Discover(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(found["test"]) != 3 {
		t.Fatalf("Expected 3 scenarios, got %v", found)
	}
	if err := plan.Download(context.Background(), found); err != nil {
		t.Fatal(err)
	}
	snap := plan.Stats.Snapshot()
	if snap.Downloaded != 2 || snap.Failed != 1 {
		t.Errorf("unexpected stats %+v", snap)
	}

	m := NewManifest(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), snap)
	m.Dataset = "motion_forecasting"
	m.FoundScenarios = found
	if err := m.Scan(dir, params.Splits); err != nil {
		t.Fatal(err)
	}
	path, err := m.Write(dir)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got["download_timestamp"] != "2024-01-02 03:04:05" {
		t.Errorf("unexpected timestamp %v", got["download_timestamp"])
	}
	if _, ok := got["found_logs"]; ok {
		t.Error("found_logs should be omitted")
	}
	s1 := m.Structure["test"]["s1"]
	if s1.FileCount != 1 || s1.Files[0] != "log_map_archive_s1.json" || s1.TotalBytes != int64(len(objects[fc+"test/s1/log_map_archive_s1.json"])) {
		t.Errorf("unexpected s1 entry %+v", s1)
	}
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestDownloadReportsProgress(t *testing.T) {
	fc := "datasets/av2/motion-forecasting/"
	objects := map[string][]byte{
		fc + "test/s1/log_map_archive_s1.json": []byte(`{}`),
		fc + "test/s2/log_map_archive_s2.json": []byte(`{}`),
	}
	b, _, _ := newFakeBucket(objects)
	var out lockedBuffer
	plan := NewForecastingPlan(b, params.DefaultBucketConfig(), t.TempDir())
	plan.Progress = &out
	found, err := plan.Discover(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if err := plan.Download(context.Background(), found); err != nil {
		t.Fatal(err)
	}
	if snap := plan.Stats.Snapshot(); snap.Downloaded != 2 {
		t.Errorf("Expected/Got 2/%d downloads", snap.Downloaded)
	}
	if !strings.Contains(out.String(), "Downloading HD maps") {
		t.Errorf("Expected progress output, got %q", out.String())
	}

	var sensorOut lockedBuffer
	sb, _, _ := newFakeBucket(sensorObjects())
	sensor := NewSensorPlan(sb, params.DefaultBucketConfig(), t.TempDir())
	sensor.Catalog = &memCatalog{data: map[string]string{}}
	sensor.Progress = &sensorOut
	logs, err := sensor.Discover(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if err := sensor.Download(context.Background(), logs); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sensorOut.String(), "Downloading logs") {
		t.Errorf("Expected progress output, got %q", sensorOut.String())
	}
}
