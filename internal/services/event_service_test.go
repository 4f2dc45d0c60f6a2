package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventListTagFilter(t *testing.T) {
	owner := uuid.New()

	t.Run("any tag matches", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewEventService(db)

		mock.ExpectQuery(`SELECT \* FROM "calendar_events" WHERE owner_id = \$1 AND \(tags @> \$2 OR tags @> \$3\) ORDER BY starts_at ASC`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := svc.List(owner, ListFilter{Tags: []string{"work", "travel"}})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("all tags required", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewEventService(db)

		mock.ExpectQuery(`SELECT \* FROM "calendar_events" WHERE owner_id = \$1 AND tags @> \$2 AND tags @> \$3 ORDER BY starts_at ASC`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := svc.List(owner, ListFilter{Tags: []string{"work", "travel"}, MatchAll: true})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("search combines with tags", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewEventService(db)

		mock.ExpectQuery(`SELECT \* FROM "calendar_events" WHERE owner_id = \$1 AND \(title ILIKE \$2 OR description ILIKE \$3\) AND tags @> \$4 ORDER BY starts_at ASC`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := svc.List(owner, ListFilter{Search: "standup", Tags: []string{"work"}, MatchAll: true})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
