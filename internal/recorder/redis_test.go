package recorder

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
)

func TestRedisRecorder_Seen(t *testing.T) {
	db, mock := redismock.NewClientMock()
	r := newRedisRecorderWithClient(db, 168*time.Hour)

	mock.ExpectExists(redisSeenPrefix + "BTCUSDT").SetVal(1)
	seen, err := r.Seen("BTCUSDT")
	if err != nil {
		t.Fatalf("Seen: %v", err)
	}
	if !seen {
		t.Error("expected seen=true for existing key")
	}

	mock.ExpectExists(redisSeenPrefix + "ETHUSDT").SetVal(0)
	seen, err = r.Seen("ETHUSDT")
	if err != nil {
		t.Fatalf("Seen: %v", err)
	}
	if seen {
		t.Error("expected seen=false for missing key")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRedisRecorder_Record(t *testing.T) {
	db, mock := redismock.NewClientMock()
	r := newRedisRecorderWithClient(db, 168*time.Hour)

	rec := testRecord("BTCUSDT")
	payload, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	mock.ExpectSet(redisSeenPrefix+"BTCUSDT", rec.ID, 168*time.Hour).SetVal("OK")
	mock.ExpectSAdd(redisSymbolsKey, "BTCUSDT").SetVal(1)
	mock.ExpectLPush(redisHistoryKey, payload).SetVal(1)
	mock.ExpectLTrim(redisHistoryKey, 0, historyMaxLen-1).SetVal("OK")

	if err := r.Record(rec); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRedisRecorder_Recent(t *testing.T) {
	db, mock := redismock.NewClientMock()
	r := newRedisRecorderWithClient(db, 168*time.Hour)

	a := testRecord("BTCUSDT")
	b := testRecord("ETHUSDT")
	pa, _ := json.Marshal(a)
	pb, _ := json.Marshal(b)

	mock.ExpectLRange(redisHistoryKey, 0, 9).SetVal([]string{string(pa), string(pb)})

	records, err := r.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Symbol != "BTCUSDT" || records[1].Symbol != "ETHUSDT" {
		t.Errorf("unexpected order: %s, %s", records[0].Symbol, records[1].Symbol)
	}
	if records[0].ID != a.ID {
		t.Errorf("record mismatch: %+v", records[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRedisRecorder_RecentMalformedEntry(t *testing.T) {
	db, mock := redismock.NewClientMock()
	r := newRedisRecorderWithClient(db, 168*time.Hour)

	mock.ExpectLRange(redisHistoryKey, 0, 9).SetVal([]string{"not json"})

	if _, err := r.Recent(10); err == nil {
		t.Fatal("expected error for malformed history entry")
	}
}

func TestRedisRecorder_Clear(t *testing.T) {
	db, mock := redismock.NewClientMock()
	r := newRedisRecorderWithClient(db, 168*time.Hour)

	mock.ExpectSMembers(redisSymbolsKey).SetVal([]string{"BTCUSDT", "ETHUSDT"})
	mock.ExpectDel(
		redisSeenPrefix+"BTCUSDT",
		redisSeenPrefix+"ETHUSDT",
		redisHistoryKey,
		redisSymbolsKey,
	).SetVal(4)

	if err := r.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
