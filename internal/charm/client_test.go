// ABOUTME: Unit tests for the Charm-backed repository.
// ABOUTME: Runs against an in-memory key-value store standing in for Charm KV.
package charm

import (
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memKV struct {
	data     map[string][]byte
	readOnly bool
	syncs    int
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string][]byte)}
}

func (m *memKV) Get(key []byte) ([]byte, error) {
	v, ok := m.data[string(key)]
	if !ok {
		return nil, fmt.Errorf("key not found: %s", key)
	}
	return v, nil
}

func (m *memKV) Set(key, value []byte) error {
	m.data[string(key)] = value
	return nil
}

func (m *memKV) Delete(key []byte) error {
	delete(m.data, string(key))
	return nil
}

func (m *memKV) Keys() ([][]byte, error) {
	names := make([]string, 0, len(m.data))
	for k := range m.data {
		names = append(names, k)
	}
	sort.Strings(names)

	keys := make([][]byte, 0, len(names))
	for _, k := range names {
		keys = append(keys, []byte(k))
	}
	return keys, nil
}

func (m *memKV) Sync() error      { m.syncs++; return nil }
func (m *memKV) Reset() error     { m.data = make(map[string][]byte); return nil }
func (m *memKV) IsReadOnly() bool { return m.readOnly }
func (m *memKV) Close() error     { return nil }

var testBase = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func setupTestClient(t *testing.T) (*Client, *memKV) {
	t.Helper()
	store := newMemKV()
	return newClient(store), store
}

func TestKeyFormats(t *testing.T) {
	h := models.NewHabit(uuid.New(), "read", models.Daily)
	c := models.NewCompletion(h.ID)

	tests := []struct {
		name string
		key  string
		want string
	}{
		{"user", userKey("alice"), "user:alice"},
		{"habit", habitKey(h.ID), "habit:" + h.ID.String()},
		{"completion", completionKey(c), "completion:" + h.ID.String() + ":" + c.ID.String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key)
		})
	}
}

func TestUsers(t *testing.T) {
	c, _ := setupTestClient(t)

	u := models.NewUser("alice", "secret-hash")
	require.NoError(t, c.CreateUser(u))
	assert.Error(t, c.CreateUser(models.NewUser("alice", "other")), "duplicate username")

	got, err := c.GetUserByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "secret-hash", got.PasswordHash)

	// "al" is a key prefix of "alice" but not a user.
	_, err = c.GetUserByUsername("al")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestHabitLifecycle(t *testing.T) {
	c, store := setupTestClient(t)
	alice := uuid.New()
	bob := uuid.New()

	read := models.NewHabit(alice, "read", models.Daily).WithCreatedAt(testBase.Add(time.Hour))
	clean := models.NewHabit(alice, "clean", models.Weekly).WithCreatedAt(testBase)
	other := models.NewHabit(bob, "read", models.Daily).WithCreatedAt(testBase)
	for _, h := range []*models.Habit{read, clean, other} {
		require.NoError(t, c.CreateHabit(h))
	}

	habits, err := c.ListHabits(alice, nil)
	require.NoError(t, err)
	require.Len(t, habits, 2)
	assert.Equal(t, "clean", habits[0].Name)
	assert.Equal(t, "read", habits[1].Name)

	daily := models.Daily
	habits, err = c.ListHabits(alice, &daily)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, read.ID, habits[0].ID)

	got, err := c.GetHabit(alice, "read")
	require.NoError(t, err)
	assert.Equal(t, read.ID, got.ID)

	_, err = c.GetHabit(bob, clean.ShortID())
	assert.ErrorIs(t, err, storage.ErrNotFound, "another user's habit")

	for _, ts := range []time.Time{testBase.AddDate(0, 0, 1), testBase} {
		require.NoError(t, c.AddCompletion(models.NewCompletion(read.ID).WithCompletedAt(ts)))
	}
	require.NoError(t, c.AddCompletion(models.NewCompletion(other.ID)))

	completions, err := c.ListCompletions(read.ID)
	require.NoError(t, err)
	require.Len(t, completions, 2)
	assert.True(t, completions[0].CompletedAt.Equal(testBase), "completions should be ascending")

	require.NoError(t, c.DeleteHabit(alice, read.ID.String()))
	for k := range store.data {
		assert.NotContains(t, k, read.ID.String())
	}

	remaining, err := c.ListCompletions(other.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestCreateHabitInvalidPeriodicity(t *testing.T) {
	c, _ := setupTestClient(t)

	err := c.CreateHabit(models.NewHabit(uuid.New(), "read", "yearly"))
	assert.ErrorIs(t, err, models.ErrInvalidPeriodicity)
}

func TestAddCompletionUnknownHabit(t *testing.T) {
	c, _ := setupTestClient(t)

	err := c.AddCompletion(models.NewCompletion(uuid.New()))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestReadOnlyRejectsWrites(t *testing.T) {
	c, store := setupTestClient(t)
	store.readOnly = true

	assert.ErrorIs(t, c.CreateUser(models.NewUser("alice", "hash")), ErrReadOnly)
	assert.NoError(t, c.Sync(), "sync in read-only mode is a no-op")
	assert.Equal(t, 0, store.syncs)
}

func TestAutoSync(t *testing.T) {
	c, store := setupTestClient(t)

	require.NoError(t, c.CreateUser(models.NewUser("alice", "hash")))
	assert.Equal(t, 1, store.syncs, "sync after write")

	c.SetAutoSync(false)
	require.NoError(t, c.CreateUser(models.NewUser("bob", "hash")))
	assert.Equal(t, 1, store.syncs, "no sync with auto-sync off")
}

func TestExportImport(t *testing.T) {
	src, _ := setupTestClient(t)
	alice := uuid.New()
	h := models.NewHabit(alice, "read", models.Daily).WithCreatedAt(testBase)
	require.NoError(t, src.CreateHabit(h))
	for i := 0; i < 3; i++ {
		comp := models.NewCompletion(h.ID).WithCompletedAt(testBase.AddDate(0, 0, i))
		require.NoError(t, src.AddCompletion(comp))
	}

	data, err := src.GetAllData(alice)
	require.NoError(t, err)
	require.Len(t, data.Habits, 1)
	require.Len(t, data.Completions, 3)

	dst, store := setupTestClient(t)
	bob := uuid.New()
	require.NoError(t, dst.ImportData(bob, data))
	assert.Equal(t, 1, store.syncs, "single sync after import")

	habits, err := dst.ListHabits(bob, nil)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, bob, habits[0].UserID)

	completions, err := dst.ListCompletions(h.ID)
	require.NoError(t, err)
	assert.Len(t, completions, 3)
}

func TestImportRejectsDuplicateNames(t *testing.T) {
	c, store := setupTestClient(t)
	alice := uuid.New()
	require.NoError(t, c.CreateHabit(models.NewHabit(alice, "read", models.Daily)))
	before := len(store.data)

	err := c.ImportData(alice, &storage.ExportData{
		Habits: []*models.Habit{models.NewHabit(alice, "read", models.Weekly)},
	})
	assert.ErrorIs(t, err, storage.ErrHabitExists, "name already taken")

	err = c.ImportData(alice, &storage.ExportData{
		Habits: []*models.Habit{
			models.NewHabit(alice, "stretch", models.Daily),
			models.NewHabit(alice, "stretch", models.Weekly),
		},
	})
	assert.ErrorIs(t, err, storage.ErrHabitExists, "name repeated in file")

	assert.Len(t, store.data, before, "rejected imports write nothing")
}

func TestMigrateFromSQLite(t *testing.T) {
	db, err := storage.Open(t.TempDir() + "/habits.db")
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	u := models.NewUser("alice", "hash")
	require.NoError(t, db.CreateUser(u))
	h := models.NewHabit(u.ID, "read", models.Daily)
	require.NoError(t, db.CreateHabit(h))
	require.NoError(t, db.AddCompletion(models.NewCompletion(h.ID)))

	dst, _ := setupTestClient(t)
	summary, err := storage.MigrateData(db, dst, "alice")
	require.NoError(t, err)
	assert.Equal(t, &storage.MigrateSummary{Users: 1, Habits: 1, Completions: 1}, summary)

	got, err := dst.GetUserByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, "hash", got.PasswordHash, "password hash survives migration")
}

func TestKeyCounts(t *testing.T) {
	c, _ := setupTestClient(t)

	u := models.NewUser("alice", "hash")
	require.NoError(t, c.CreateUser(u))
	h := models.NewHabit(u.ID, "read", models.Daily)
	require.NoError(t, c.CreateHabit(h))
	for i := 0; i < 3; i++ {
		comp := models.NewCompletion(h.ID).WithCompletedAt(testBase.AddDate(0, 0, i))
		require.NoError(t, c.AddCompletion(comp))
	}

	users, habits, completions, err := c.KeyCounts()
	require.NoError(t, err)
	assert.Equal(t, 1, users)
	assert.Equal(t, 1, habits)
	assert.Equal(t, 3, completions)
}
