package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"zomaksho/internal/events"
	"zomaksho/internal/llm"
)

const paneerReply = `[{"name":"Paneer Tikka","price":220,"description":"Smoky grilled cottage cheese","isVeg":true,"restaurant":"Spice Hub"}]`

// fakeClient answers every prompt with reply/err and counts calls.
type fakeClient struct {
	mu     sync.Mutex
	reply  string
	err    error
	calls  int
	prompt string
}

func (f *fakeClient) Complete(ctx context.Context, model, systemPrompt, userMessage string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompt = userMessage
	return f.reply, f.err
}

func newTestService(client llm.Client) (*Service, *events.InMemoryRepository) {
	repo := events.NewInMemoryRepository()
	svc := NewService(client, "openai/gpt-3.5-turbo", Parser{}, NewTracker(), events.NewRepositoryPublisher(repo))
	return svc, repo
}

func TestBuildFoodSearchPrompt_EmbedsQueryVerbatim(t *testing.T) {
	for _, q := range []string{"paneer", "  Spicy, CHEAP!! momos ", `quote "inside"`} {
		p := BuildFoodSearchPrompt(q)
		if !strings.Contains(p, q) {
			t.Errorf("prompt for %q does not contain the query verbatim", q)
		}
		if !strings.Contains(p, "Gulab Jamun") {
			t.Errorf("prompt for %q lost the example record", q)
		}
		if !strings.HasSuffix(p, "}\n]") {
			t.Errorf("prompt for %q should end with the example array, got tail %q", q, p[len(p)-20:])
		}
	}
}

func TestParseSuggestions(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want int
		ok   bool
	}{
		{"single record", paneerReply, 1, true},
		{"empty array", `[]`, 0, true},
		{"two records", `[{"name":"A","price":1,"description":"","isVeg":false,"restaurant":"R"},{"name":"B"}]`, 2, true},
		{"prose", "Sorry, I cannot help with that.", 0, false},
		{"truncated", `[{"name":"Dal"`, 0, false},
		{"object not array", `{"name":"Dal"}`, 0, false},
		{"array of strings", `["dal","rice"]`, 0, false},
		{"wrong typed price", `[{"name":"Dal","price":"cheap"}]`, 1, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items, ok := ParseSuggestions(tc.raw)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if items == nil {
				t.Fatal("expected a non-nil slice")
			}
			if len(items) != tc.want {
				t.Fatalf("got %d items, want %d", len(items), tc.want)
			}
		})
	}
}

func TestParseSuggestions_FieldsUnchanged(t *testing.T) {
	items, ok := ParseSuggestions(paneerReply)
	if !ok {
		t.Fatal("expected ok")
	}
	want := FoodItemSuggestion{
		Name:        "Paneer Tikka",
		Price:       220,
		Description: "Smoky grilled cottage cheese",
		IsVeg:       true,
		Restaurant:  "Spice Hub",
	}
	if items[0] != want {
		t.Errorf("got %+v, want %+v", items[0], want)
	}
}

func TestParser_StrictDropsIncompleteRecords(t *testing.T) {
	raw := `[` +
		`{"name":"Dal","price":120,"description":"Yellow lentils","isVeg":true,"restaurant":"Dhaba"},` +
		`{"name":"Mystery"},` +
		`{"name":"Kebab","price":"a lot","description":"","isVeg":false,"restaurant":"Grill"},` +
		`42,` +
		`"paneer",` +
		`{"Name":"Chole","Price":140,"Description":"Chickpea curry","IsVeg":true,"Restaurant":"Dhaba"}` +
		`]`

	items, ok := Parser{Strict: true}.Parse(raw)
	if !ok {
		t.Fatal("expected ok")
	}
	if len(items) != 2 || items[0].Name != "Dal" || items[1].Name != "Chole" {
		t.Fatalf("expected Dal and Chole to survive, got %+v", items)
	}
	if items[1].Price != 140 || !items[1].IsVeg {
		t.Errorf("case-folded record lost fields: %+v", items[1])
	}
}

func TestParser_NonStrictRejectsNonObjectElements(t *testing.T) {
	raw := `[{"name":"Dal","price":120,"description":"","isVeg":true,"restaurant":"Dhaba"},42]`

	items, ok := Parser{}.Parse(raw)
	if ok || len(items) != 0 {
		t.Fatalf("expected the whole reply to be rejected, got ok=%v items=%+v", ok, items)
	}
}

func TestLookup_EmptyQueryNeverCallsGateway(t *testing.T) {
	client := &fakeClient{reply: paneerReply}
	svc, repo := newTestService(client)

	for _, q := range []string{"", "   ", "\t\n"} {
		if _, err := svc.Lookup(context.Background(), Request{Query: q}); !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("Lookup(%q) error = %v, want ErrEmptyQuery", q, err)
		}
		if _, err := svc.Search(context.Background(), "s1", q); !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("Search(%q) error = %v, want ErrEmptyQuery", q, err)
		}
	}

	if client.calls != 0 {
		t.Fatalf("expected no gateway calls, got %d", client.calls)
	}
	if got, _ := repo.ListRecent(context.Background(), 10); len(got) != 0 {
		t.Errorf("expected no recorded events, got %d", len(got))
	}
	if st := svc.State("s1"); st.Status != StatusIdle {
		t.Errorf("expected idle state, got %s", st.Status)
	}
}

func TestSearch_PaneerTikka(t *testing.T) {
	query := "spicy vegetarian dinner under 250"
	client := &fakeClient{reply: paneerReply}
	svc, repo := newTestService(client)

	out, err := svc.Search(context.Background(), "s1", query)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(client.prompt, query) {
		t.Errorf("prompt does not contain query: %s", client.prompt)
	}
	if out.Status != StatusResults || out.Stale {
		t.Fatalf("unexpected outcome %+v", out)
	}

	cards := Cards(out.Items)
	if len(cards) != 1 {
		t.Fatalf("expected one card, got %d", len(cards))
	}
	if cards[0].VegLabel != LabelVeg || cards[0].Price != 220 || cards[0].PriceLabel != "₹220" {
		t.Errorf("unexpected card %+v", cards[0])
	}

	wantMsg := fmt.Sprintf("Found 1 results for %q", query)
	if out.Notification == nil || out.Notification.Level != LevelSuccess || out.Notification.Message != wantMsg {
		t.Errorf("unexpected notification %+v", out.Notification)
	}

	st := svc.State("s1")
	if st.Status != StatusResults || len(st.Items) != 1 || st.Query != query {
		t.Errorf("unexpected state %+v", st)
	}

	recorded, _ := repo.ListRecent(context.Background(), 10)
	if len(recorded) != 1 || recorded[0].Outcome != events.OutcomeResults || recorded[0].ResultCount != 1 {
		t.Errorf("unexpected events %+v", recorded)
	}
	if recorded[0].Surface != events.SurfaceSearchBar || recorded[0].SessionID != "s1" {
		t.Errorf("unexpected event origin %+v", recorded[0])
	}
}

func TestSearch_ProseReplyFails(t *testing.T) {
	svc, repo := newTestService(&fakeClient{reply: "Sorry, I cannot help with that."})

	out, err := svc.Search(context.Background(), "s1", "anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != StatusError || len(out.Items) != 0 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if out.Notification == nil || out.Notification.Level != LevelError || out.Notification.Message != "Something went wrong while searching" {
		t.Errorf("unexpected notification %+v", out.Notification)
	}

	recorded, _ := repo.ListRecent(context.Background(), 10)
	if len(recorded) != 1 || recorded[0].Outcome != events.OutcomeMalformed {
		t.Errorf("unexpected events %+v", recorded)
	}
}

func TestSearch_GatewayFailure(t *testing.T) {
	client := &fakeClient{err: fmt.Errorf("%w: status 500", llm.ErrGateway)}
	svc, repo := newTestService(client)

	if _, err := svc.Lookup(context.Background(), Request{Query: "dosa"}); !errors.Is(err, llm.ErrGateway) {
		t.Fatalf("Lookup error = %v, want ErrGateway", err)
	}

	out, err := svc.Search(context.Background(), "s1", "dosa")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != StatusError || out.Notification.Message != FailureNotification().Message {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if client.calls != 2 {
		t.Errorf("expected exactly one call per lookup, got %d", client.calls)
	}

	recorded, _ := repo.ListRecent(context.Background(), 10)
	if len(recorded) != 2 || recorded[0].Outcome != events.OutcomeFailed {
		t.Errorf("unexpected events %+v", recorded)
	}
}

func TestSearch_EmptyArrayIsResults(t *testing.T) {
	svc, _ := newTestService(&fakeClient{reply: "[]"})

	out, _ := svc.Search(context.Background(), "s1", "unicorn steak")
	if out.Status != StatusResults || len(out.Items) != 0 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if out.Notification.Message != `Found 0 results for "unicorn steak"` {
		t.Errorf("unexpected message %q", out.Notification.Message)
	}
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, events.SearchEvent) error {
	return errors.New("broker down")
}

func TestSearch_PublishFailureDoesNotFailSearch(t *testing.T) {
	svc := NewService(&fakeClient{reply: paneerReply}, "m", Parser{}, NewTracker(), failingPublisher{})

	out, err := svc.Search(context.Background(), "s1", "paneer")
	if err != nil || out.Status != StatusResults {
		t.Fatalf("unexpected result %+v, %v", out, err)
	}
}

// gatedClient blocks each call until its query is released.
type gatedClient struct {
	started chan string
	release map[string]chan string
}

func (g *gatedClient) Complete(ctx context.Context, model, systemPrompt, userMessage string) (string, error) {
	for q, ch := range g.release {
		if strings.Contains(userMessage, `"`+q+`"`) {
			g.started <- q
			return <-ch, nil
		}
	}
	return "", errors.New("unexpected prompt")
}

func TestSearch_LatestIssuedWins(t *testing.T) {
	client := &gatedClient{
		started: make(chan string),
		release: map[string]chan string{
			"first":  make(chan string),
			"second": make(chan string),
		},
	}
	svc, _ := newTestService(client)

	results := make(map[string]*Outcome)
	var mu sync.Mutex
	var wg sync.WaitGroup
	run := func(q string) {
		defer wg.Done()
		out, err := svc.Search(context.Background(), "s1", q)
		if err != nil {
			t.Errorf("search %q: %v", q, err)
			return
		}
		mu.Lock()
		results[q] = out
		mu.Unlock()
	}

	wg.Add(2)
	go run("first")
	<-client.started
	go run("second")
	<-client.started

	client.release["second"] <- `[{"name":"Second Dish","price":100,"description":"","isVeg":true,"restaurant":"B"}]`
	client.release["first"] <- `[{"name":"First Dish","price":100,"description":"","isVeg":true,"restaurant":"A"}]`
	wg.Wait()

	if results["second"] == nil || results["second"].Stale {
		t.Fatalf("expected second to settle, got %+v", results["second"])
	}
	if results["first"] == nil || !results["first"].Stale {
		t.Fatalf("expected first to be stale, got %+v", results["first"])
	}

	st := svc.State("s1")
	if st.Status != StatusResults || len(st.Items) != 1 || st.Items[0].Name != "Second Dish" {
		t.Errorf("expected latest-issued results, got %+v", st)
	}
	if st.RequestID != results["second"].RequestID {
		t.Errorf("state request id %d, want %d", st.RequestID, results["second"].RequestID)
	}
}

func TestTracker_ClearDiscardsInFlight(t *testing.T) {
	tr := NewTracker()

	id := tr.Begin("s1", "biryani")
	if st := tr.Get("s1"); st.Status != StatusLoading {
		t.Fatalf("expected loading, got %s", st.Status)
	}

	tr.Clear("s1")
	if tr.Resolve("s1", id, nil, FoundNotification(0, "biryani")) {
		t.Error("expected completion after clear to be discarded")
	}
	if st := tr.Get("s1"); st.Status != StatusIdle {
		t.Errorf("expected idle, got %s", st.Status)
	}
}

func TestTracker_IDsIncrease(t *testing.T) {
	tr := NewTracker()
	a := tr.Begin("s1", "a")
	b := tr.Begin("s2", "b")
	c := tr.Begin("s1", "c")
	if !(a < b && b < c) {
		t.Errorf("expected increasing ids, got %d %d %d", a, b, c)
	}
	if tr.Fail("s1", a, FailureNotification()) {
		t.Error("expected superseded request to be rejected")
	}
	if !tr.Fail("s1", c, FailureNotification()) {
		t.Error("expected latest request to settle")
	}
}

func TestTracker_Evict(t *testing.T) {
	tr := NewTracker()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tr.now = func() time.Time { return base }
	tr.Begin("old", "dosa")
	tr.now = func() time.Time { return base.Add(2 * time.Hour) }
	tr.Begin("fresh", "idli")

	if n := tr.Evict(base.Add(time.Hour)); n != 1 {
		t.Fatalf("expected 1 eviction, got %d", n)
	}
	if st := tr.Get("old"); st.Status != StatusIdle {
		t.Errorf("expected evicted session to be idle, got %s", st.Status)
	}
	if st := tr.Get("fresh"); st.Status != StatusLoading {
		t.Errorf("expected recent session to survive, got %s", st.Status)
	}
}
