package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/go-cmp/cmp"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/spektr-org/launchdash/dashboard"
	"github.com/spektr-org/launchdash/engine"
)

// ============================================================================
// FIXTURES
// ============================================================================

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	table := testTable()
	options := dashboard.NewOptions(table, []string{"CCAFS LC-40", "VAFB SLC-4E", "KSC LC-39A", "CCAFS SLC-40"},
		dashboard.Slider{Min: 0, Max: 10000, Step: 1000})
	srv := New(Config{ChartWidth: 400, ChartHeight: 300}, table, options, logr.Discard())

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, wantStatus int, v any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s: status %d, want %d", url, resp.StatusCode, wantStatus)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}

// ============================================================================
// QUERY ENDPOINTS
// ============================================================================

func TestOptionsEndpoint(t *testing.T) {
	ts := testServer(t)

	var opts dashboard.Options
	getJSON(t, ts.URL+"/api/options", http.StatusOK, &opts)

	var values []string
	for _, s := range opts.Sites {
		values = append(values, s.Value)
	}
	want := []string{engine.AllSites, "CCAFS LC-40", "VAFB SLC-4E", "KSC LC-39A", "CCAFS SLC-40"}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Errorf("site options (-want +got):\n%s", diff)
	}
	if opts.Default.Payload != (engine.PayloadRange{Low: 500, High: 5000}) {
		t.Errorf("default payload = %+v", opts.Default.Payload)
	}
	if opts.Slider.Step != 1000 || len(opts.Slider.Marks) != 11 {
		t.Errorf("slider step = %g with %d marks, want 1000 with 11", opts.Slider.Step, len(opts.Slider.Marks))
	}
}

func TestChartEndpoints(t *testing.T) {
	ts := testServer(t)

	var pie engine.ChartSpec
	getJSON(t, ts.URL+"/api/charts/proportion?site=CCAFS+LC-40", http.StatusOK, &pie)
	if diff := cmp.Diff(engine.BuildProportionChart("CCAFS LC-40", testTable()), pie); diff != "" {
		t.Errorf("proportion (-want +got):\n%s", diff)
	}

	var scatter engine.ChartSpec
	getJSON(t, ts.URL+"/api/charts/scatter?low=1000&high=5000", http.StatusOK, &scatter)
	if scatter.PointCount() != 2 {
		t.Errorf("scatter points = %d, want 2", scatter.PointCount())
	}
}

func TestChartEndpointRejectsInvalidSelection(t *testing.T) {
	ts := testServer(t)

	for _, q := range []string{
		"/api/charts/proportion?site=Boca+Chica",
		"/api/charts/scatter?low=6000&high=1000",
		"/api/charts/scatter?low=abc",
		"/api/charts/scatter.png?high=99999",
	} {
		var body map[string]string
		getJSON(t, ts.URL+q, http.StatusBadRequest, &body)
		if body["error"] == "" {
			t.Errorf("%s: expected an error message", q)
		}
	}

	var body map[string]string
	getJSON(t, ts.URL+"/api/charts/bar", http.StatusNotFound, &body)
}

func TestChartImageEndpoint(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/api/charts/scatter.png?site=KSC+LC-39A")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("Content-Type = %q", ct)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 400 {
		t.Errorf("width = %d, want 400", img.Bounds().Dx())
	}
}

func TestSummaryAndHealth(t *testing.T) {
	ts := testServer(t)

	var summary struct {
		Table engine.TableData `json:"table"`
		Text  engine.TextData  `json:"text"`
	}
	getJSON(t, ts.URL+"/api/summary", http.StatusOK, &summary)
	if len(summary.Table.Rows) != 2 {
		t.Errorf("summary rows = %d, want one per site", len(summary.Table.Rows))
	}
	if summary.Text.Launches != 3 {
		t.Errorf("launches = %d", summary.Text.Launches)
	}

	var health map[string]any
	getJSON(t, ts.URL+"/healthz", http.StatusOK, &health)
	if health["status"] != "ok" {
		t.Errorf("health = %v", health)
	}
}

func TestIndexAndMetrics(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var b bytes.Buffer
	if _, err := b.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "SpaceX Launch Records Dashboard") {
		t.Error("index page is missing the dashboard title")
	}
	for _, want := range []string{`list="marks"`, "input.step = opts.slider.step", "opts.slider.marks"} {
		if !strings.Contains(b.String(), want) {
			t.Errorf("index page range inputs should use the slider step and marks: missing %q", want)
		}
	}

	resp, err = http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b.Reset()
	_, _ = b.ReadFrom(resp.Body)
	if !strings.Contains(b.String(), "launchdash_sessions_active") {
		t.Error("metrics are missing the session gauge")
	}
}

// ============================================================================
// WEBSOCKET SESSION
// ============================================================================

func TestSession(t *testing.T) {
	ts := testServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	read := func() serverMessage {
		t.Helper()
		var m serverMessage
		if err := wsjson.Read(ctx, conn, &m); err != nil {
			t.Fatalf("read: %v", err)
		}
		return m
	}
	send := func(m clientMessage) {
		t.Helper()
		if err := wsjson.Write(ctx, conn, m); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	// initial render
	if got := []dashboard.ChartID{read().Chart, read().Chart}; !cmp.Equal(got, []dashboard.ChartID{dashboard.ChartProportion, dashboard.ChartScatter}) {
		t.Fatalf("initial charts = %v", got)
	}

	send(clientMessage{Type: msgSite, Site: "KSC LC-39A"})
	pie, scatter := read(), read()
	if pie.Chart != dashboard.ChartProportion || pie.Spec.Title != "Total Launch for a KSC LC-39A" {
		t.Errorf("pie = %+v", pie)
	}
	if scatter.Spec.PointCount() != 1 {
		t.Errorf("scatter points = %d, want 1", scatter.Spec.PointCount())
	}

	low := 6000.0
	send(clientMessage{Type: msgRange, Low: &low})
	m := read()
	if m.Error == "" || m.Selection == nil || m.Selection.Site != "KSC LC-39A" {
		t.Errorf("expected a rejection keeping the previous selection, got %+v", m)
	}

	high := 10000.0
	send(clientMessage{Type: msgRange, Low: &low, High: &high})
	m = read()
	if m.Chart != dashboard.ChartScatter || !m.Spec.Empty {
		t.Errorf("expected an empty scatter placeholder, got %+v", m)
	}

	send(clientMessage{Type: "zoom"})
	if m := read(); !strings.Contains(m.Error, "unknown type") {
		t.Errorf("expected unknown type error, got %+v", m)
	}

	conn.Close(websocket.StatusNormalClosure, "")
}

func TestClientMessageEvent(t *testing.T) {
	cur := dashboard.Selection{Site: engine.AllSites, Payload: engine.PayloadRange{Low: 0, High: 9000}}
	high := 4000.0

	ev, err := clientMessage{Type: msgRange, High: &high}.event(cur)
	if err != nil {
		t.Fatal(err)
	}
	want := dashboard.RangeChanged{Range: engine.PayloadRange{Low: 0, High: 4000}}
	if diff := cmp.Diff(dashboard.Event(want), ev); diff != "" {
		t.Errorf("event (-want +got):\n%s", diff)
	}

	if _, err := (clientMessage{Type: msgRange}).event(cur); err == nil {
		t.Error("expected an error for a range message without bounds")
	}
}

func testTable() *engine.LaunchTable {
	return engine.NewLaunchTable([]engine.LaunchRecord{
		{FlightNumber: 1, LaunchSite: "CCAFS LC-40", PayloadMassKg: 500, Class: 0, BoosterVersionCategory: "v1.0"},
		{FlightNumber: 2, LaunchSite: "CCAFS LC-40", PayloadMassKg: 2500, Class: 1, BoosterVersionCategory: "FT"},
		{FlightNumber: 3, LaunchSite: "KSC LC-39A", PayloadMassKg: 5000, Class: 1, BoosterVersionCategory: "FT"},
	})
}
