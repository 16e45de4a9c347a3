package domain

import (
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	return db
}

func allModels() []any {
	return []any{&User{}, &SocialAccount{}, &UserLogin{}, &Task{}, &TaskEvent{}, &TaskCompletion{}, &PointsLedgerEntry{}, &FaucetClaim{}}
}

func TestTableNames(t *testing.T) {
	cases := map[string]string{
		(Task{}).TableName():              "tasks",
		(TaskEvent{}).TableName():         "task_events",
		(TaskCompletion{}).TableName():    "task_completions",
		(PointsLedgerEntry{}).TableName(): "points_ledger",
		(FaucetClaim{}).TableName():       "faucet_claims",
		(User{}).TableName():              "users",
		(SocialAccount{}).TableName():     "social_accounts",
		(UserLogin{}).TableName():         "user_logins",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("TableName() = %q; want %q", got, want)
		}
	}
}

func TestMigrations_DedupIndex(t *testing.T) {
	db := newDomainDB(t)
	if err := db.AutoMigrate(allModels()...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()

	for _, tbl := range allModels() {
		if !m.HasTable(tbl) {
			t.Fatalf("expected table for %T to exist", tbl)
		}
	}
	if !m.HasIndex(&TaskEvent{}, "ux_event_dedup") {
		t.Fatalf("expected unique index ux_event_dedup on task_events")
	}
	if !m.HasIndex(&UserLogin{}, "ux_login_user_date") {
		t.Fatalf("expected unique index ux_login_user_date on user_logins")
	}

	now := time.Now().UTC()
	u := &User{ID: "u1", WalletAddress: "zig1abc", CreatedAt: now}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("insert user: %v", err)
	}
	task := &Task{ID: "t1", Slug: "daily-login", Type: TaskTypeSocialCheck, RewardType: RewardTypePoints, RewardAmount: 10, IsActive: true, CreatedAt: now}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("insert task: %v", err)
	}

	e1 := &TaskEvent{ID: "e1", UserID: "u1", TaskID: "t1", EventType: TaskTypeSocialCheck, ExternalID: "u1", EventDate: "2026-08-31", OccurredAt: now}
	if err := db.Create(e1).Error; err != nil {
		t.Fatalf("insert event: %v", err)
	}

	// Same triple again must violate the composite unique index.
	e2 := &TaskEvent{ID: "e2", UserID: "u1", TaskID: "t1", EventType: TaskTypeSocialCheck, ExternalID: "u1", EventDate: "2026-08-31", OccurredAt: now}
	if err := db.Create(e2).Error; err == nil {
		t.Fatalf("expected unique violation for duplicate dedup triple")
	}

	// Different day is a new occurrence.
	e3 := &TaskEvent{ID: "e3", UserID: "u1", TaskID: "t1", EventType: TaskTypeSocialCheck, ExternalID: "u1", EventDate: "2026-09-01", OccurredAt: now}
	if err := db.Create(e3).Error; err != nil {
		t.Fatalf("insert event next day: %v", err)
	}
}

func TestDecodeMetadata(t *testing.T) {
	task := Task{Metadata: `{"required_hashtags":["#Ziglet"],"required_mention":"@ZigletApp"}`}
	m, err := task.DecodeMetadata()
	if err != nil {
		t.Fatalf("DecodeMetadata: %v", err)
	}
	if len(m.RequiredHashtags) != 1 || m.RequiredHashtags[0] != "#Ziglet" || m.RequiredMention != "@ZigletApp" {
		t.Fatalf("unexpected metadata: %+v", m)
	}

	empty, err := (Task{}).DecodeMetadata()
	if err != nil || len(empty.RequiredHashtags) != 0 {
		t.Fatalf("empty metadata should decode to zero value, got %+v err %v", empty, err)
	}
}
