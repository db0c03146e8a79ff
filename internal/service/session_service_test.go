package service

import (
	"errors"
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleSession(t *testing.T) {
	env := newTestEnv(t)

	teacher := env.createUser(t, "teacher")
	student := env.createUser(t, "student")
	exchange := env.createExchange(t, teacher, student, 3)

	session, err := env.session.ScheduleSession(student.ID, ScheduleSessionRequest{
		ExchangeID:    exchange.ID,
		ScheduledTime: time.Now().Add(24 * time.Hour),
		Duration:      60,
	})
	require.NoError(t, err)
	assert.Equal(t, model.SessionScheduled, session.Status)
	assert.Equal(t, exchange.ID, session.ExchangeID)
	assert.Equal(t, 60, session.Duration)
}

func TestScheduleSessionNonParticipant(t *testing.T) {
	env := newTestEnv(t)

	teacher := env.createUser(t, "teacher")
	student := env.createUser(t, "student")
	outsider := env.createUser(t, "outsider")
	exchange := env.createExchange(t, teacher, student, 3)

	_, err := env.session.ScheduleSession(outsider.ID, ScheduleSessionRequest{
		ExchangeID:    exchange.ID,
		ScheduledTime: time.Now().Add(time.Hour),
		Duration:      30,
	})
	assert.True(t, errors.Is(err, util.ErrForbidden))
}

func TestScheduleSessionUnknownExchange(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "user")

	_, err := env.session.ScheduleSession(user.ID, ScheduleSessionRequest{
		ExchangeID:    9999,
		ScheduledTime: time.Now().Add(time.Hour),
		Duration:      30,
	})
	assert.True(t, errors.Is(err, util.ErrNotFound))
}

func TestCompleteSessionCascadesToExchange(t *testing.T) {
	env := newTestEnv(t)

	teacher := env.createUser(t, "teacher")
	student := env.createUser(t, "student")
	exchange := env.createExchange(t, teacher, student, 1)
	_, err := env.exchange.UpdateStatus(exchange.ID, model.ExchangeActive, teacher.ID)
	require.NoError(t, err)

	session, err := env.session.ScheduleSession(teacher.ID, ScheduleSessionRequest{
		ExchangeID:    exchange.ID,
		ScheduledTime: time.Now(),
		Duration:      45,
	})
	require.NoError(t, err)

	// 课时结课同步级联：计数、交换结课、奖励一次调用内全部生效
	updated, err := env.session.UpdateSessionStatus(session.ID, model.SessionCompleted, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionCompleted, updated.Status)

	exchangeAfter, err := env.exchange.GetExchange(exchange.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, exchangeAfter.SessionsCompleted)
	assert.Equal(t, model.ExchangeCompleted, exchangeAfter.Status)
	assert.Equal(t, CompletionPoints, env.reloadUser(t, teacher.ID).Points)
	assert.Equal(t, CompletionPoints, env.reloadUser(t, student.ID).Points)
}

func TestCompleteSessionTwiceConflicts(t *testing.T) {
	env := newTestEnv(t)

	teacher := env.createUser(t, "teacher")
	student := env.createUser(t, "student")
	exchange := env.createExchange(t, teacher, student, 3)

	session, err := env.session.ScheduleSession(teacher.ID, ScheduleSessionRequest{
		ExchangeID:    exchange.ID,
		ScheduledTime: time.Now(),
		Duration:      45,
	})
	require.NoError(t, err)

	_, err = env.session.UpdateSessionStatus(session.ID, model.SessionCompleted, teacher.ID)
	require.NoError(t, err)

	_, err = env.session.UpdateSessionStatus(session.ID, model.SessionCompleted, student.ID)
	assert.True(t, errors.Is(err, util.ErrConflict))

	// 级联只发生了一次
	exchangeAfter, err := env.exchange.GetExchange(exchange.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, exchangeAfter.SessionsCompleted)
}

func TestCancelSessionDoesNotCascade(t *testing.T) {
	env := newTestEnv(t)

	teacher := env.createUser(t, "teacher")
	student := env.createUser(t, "student")
	exchange := env.createExchange(t, teacher, student, 3)

	session, err := env.session.ScheduleSession(teacher.ID, ScheduleSessionRequest{
		ExchangeID:    exchange.ID,
		ScheduledTime: time.Now(),
		Duration:      45,
	})
	require.NoError(t, err)

	updated, err := env.session.UpdateSessionStatus(session.ID, model.SessionCancelled, student.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionCancelled, updated.Status)

	exchangeAfter, err := env.exchange.GetExchange(exchange.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, exchangeAfter.SessionsCompleted)

	// 取消是终态，不能再拉回 completed
	_, err = env.session.UpdateSessionStatus(session.ID, model.SessionCompleted, student.ID)
	assert.True(t, errors.Is(err, util.ErrConflict))
}

func TestUpdateSessionStatusNonParticipant(t *testing.T) {
	env := newTestEnv(t)

	teacher := env.createUser(t, "teacher")
	student := env.createUser(t, "student")
	outsider := env.createUser(t, "outsider")
	exchange := env.createExchange(t, teacher, student, 3)

	session, err := env.session.ScheduleSession(teacher.ID, ScheduleSessionRequest{
		ExchangeID:    exchange.ID,
		ScheduledTime: time.Now(),
		Duration:      45,
	})
	require.NoError(t, err)

	_, err = env.session.UpdateSessionStatus(session.ID, model.SessionCompleted, outsider.ID)
	assert.True(t, errors.Is(err, util.ErrForbidden))
}

func TestGetExchangeSessionsOrdering(t *testing.T) {
	env := newTestEnv(t)

	teacher := env.createUser(t, "teacher")
	student := env.createUser(t, "student")
	outsider := env.createUser(t, "outsider")
	exchange := env.createExchange(t, teacher, student, 3)

	base := time.Now().Truncate(time.Second)
	for _, offset := range []time.Duration{48 * time.Hour, time.Hour, 24 * time.Hour} {
		_, err := env.session.ScheduleSession(teacher.ID, ScheduleSessionRequest{
			ExchangeID:    exchange.ID,
			ScheduledTime: base.Add(offset),
			Duration:      30,
		})
		require.NoError(t, err)
	}

	sessions, err := env.session.GetExchangeSessions(student.ID, exchange.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	for i := 1; i < len(sessions); i++ {
		assert.False(t, sessions[i].ScheduledTime.Before(sessions[i-1].ScheduledTime))
	}

	_, err = env.session.GetExchangeSessions(outsider.ID, exchange.ID)
	assert.True(t, errors.Is(err, util.ErrForbidden))
}
