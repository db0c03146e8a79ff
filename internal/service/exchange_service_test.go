package service

import (
	"errors"
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateExchangeDefaults(t *testing.T) {
	env := newTestEnv(t)

	teacher := env.createUser(t, "teacher")
	student := env.createUser(t, "student")
	teacherSkill := env.createSkill(t, teacher.ID, "Go", true)
	studentSkill := env.createSkill(t, student.ID, "Rust", true)

	exchange, err := env.exchange.CreateExchange(student.ID, CreateExchangeRequest{
		TeacherID:      teacher.ID,
		StudentID:      student.ID,
		TeacherSkillID: teacherSkill.ID,
		StudentSkillID: studentSkill.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, model.ExchangePending, exchange.Status)
	assert.Equal(t, 0, exchange.SessionsCompleted)
	assert.Equal(t, model.DefaultTotalSessions, exchange.TotalSessions)

	// 请求只留痕，不加分
	activities, err := env.activity.GetUserActivities(student.ID, 10)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, 0, activities[0].Points)
	assert.Equal(t, 0, env.reloadUser(t, student.ID).Points)
}

func TestCreateExchangeRequesterMustParticipate(t *testing.T) {
	env := newTestEnv(t)

	teacher := env.createUser(t, "teacher")
	student := env.createUser(t, "student")
	outsider := env.createUser(t, "outsider")
	teacherSkill := env.createSkill(t, teacher.ID, "Go", true)
	studentSkill := env.createSkill(t, student.ID, "Rust", true)

	_, err := env.exchange.CreateExchange(outsider.ID, CreateExchangeRequest{
		TeacherID:      teacher.ID,
		StudentID:      student.ID,
		TeacherSkillID: teacherSkill.ID,
		StudentSkillID: studentSkill.ID,
	})
	assert.True(t, errors.Is(err, util.ErrForbidden))
}

func TestCreateExchangeUnknownSkill(t *testing.T) {
	env := newTestEnv(t)

	teacher := env.createUser(t, "teacher")
	student := env.createUser(t, "student")
	teacherSkill := env.createSkill(t, teacher.ID, "Go", true)

	_, err := env.exchange.CreateExchange(teacher.ID, CreateExchangeRequest{
		TeacherID:      teacher.ID,
		StudentID:      student.ID,
		TeacherSkillID: teacherSkill.ID,
		StudentSkillID: 9999,
	})
	assert.True(t, errors.Is(err, util.ErrNotFound))
}

func TestUpdateStatusTransitions(t *testing.T) {
	env := newTestEnv(t)

	teacher := env.createUser(t, "teacher")
	student := env.createUser(t, "student")

	t.Run("pending to active", func(t *testing.T) {
		exchange := env.createExchange(t, teacher, student, 3)
		updated, err := env.exchange.UpdateStatus(exchange.ID, model.ExchangeActive, teacher.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ExchangeActive, updated.Status)
	})

	t.Run("pending cannot jump to completed", func(t *testing.T) {
		exchange := env.createExchange(t, teacher, student, 3)
		_, err := env.exchange.UpdateStatus(exchange.ID, model.ExchangeCompleted, teacher.ID)
		assert.True(t, errors.Is(err, util.ErrConflict))
	})

	t.Run("terminal states reject further updates", func(t *testing.T) {
		exchange := env.createExchange(t, teacher, student, 3)
		_, err := env.exchange.UpdateStatus(exchange.ID, model.ExchangeCancelled, student.ID)
		require.NoError(t, err)

		_, err = env.exchange.UpdateStatus(exchange.ID, model.ExchangeActive, student.ID)
		assert.True(t, errors.Is(err, util.ErrConflict))
	})

	t.Run("non participant is rejected", func(t *testing.T) {
		outsider := env.createUser(t, "outsider")
		exchange := env.createExchange(t, teacher, student, 3)
		_, err := env.exchange.UpdateStatus(exchange.ID, model.ExchangeActive, outsider.ID)
		assert.True(t, errors.Is(err, util.ErrForbidden))
	})
}

func TestManualCompletionAwardsBothSides(t *testing.T) {
	env := newTestEnv(t)

	teacher := env.createUser(t, "teacher")
	student := env.createUser(t, "student")
	exchange := env.createExchange(t, teacher, student, 3)

	_, err := env.exchange.UpdateStatus(exchange.ID, model.ExchangeActive, teacher.ID)
	require.NoError(t, err)
	updated, err := env.exchange.UpdateStatus(exchange.ID, model.ExchangeCompleted, teacher.ID)
	require.NoError(t, err)

	assert.Equal(t, model.ExchangeCompleted, updated.Status)
	assert.Equal(t, CompletionPoints, env.reloadUser(t, teacher.ID).Points)
	assert.Equal(t, CompletionPoints, env.reloadUser(t, student.ID).Points)

	// 再次 completed 属于非法迁移，不会重复发奖
	_, err = env.exchange.UpdateStatus(exchange.ID, model.ExchangeCompleted, student.ID)
	assert.True(t, errors.Is(err, util.ErrConflict))
	assert.Equal(t, CompletionPoints, env.reloadUser(t, teacher.ID).Points)
}

func TestRecordSessionCompletionCascade(t *testing.T) {
	env := newTestEnv(t)

	teacher := env.createUser(t, "teacher")
	student := env.createUser(t, "student")
	exchange := env.createExchange(t, teacher, student, 2)

	_, err := env.exchange.UpdateStatus(exchange.ID, model.ExchangeActive, teacher.ID)
	require.NoError(t, err)

	updated, err := env.exchange.RecordSessionCompletion(exchange.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.SessionsCompleted)
	assert.Equal(t, model.ExchangeActive, updated.Status)
	assert.Equal(t, 0, env.reloadUser(t, teacher.ID).Points)

	// 最后一个课时触发结课与双向奖励
	updated, err = env.exchange.RecordSessionCompletion(exchange.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.SessionsCompleted)
	assert.Equal(t, model.ExchangeCompleted, updated.Status)
	assert.Equal(t, CompletionPoints, env.reloadUser(t, teacher.ID).Points)
	assert.Equal(t, CompletionPoints, env.reloadUser(t, student.ID).Points)
}

func TestRecordSessionCompletionIgnoredAtTarget(t *testing.T) {
	env := newTestEnv(t)

	teacher := env.createUser(t, "teacher")
	student := env.createUser(t, "student")
	exchange := env.createExchange(t, teacher, student, 1)

	_, err := env.exchange.UpdateStatus(exchange.ID, model.ExchangeActive, teacher.ID)
	require.NoError(t, err)

	_, err = env.exchange.RecordSessionCompletion(exchange.ID)
	require.NoError(t, err)

	// 达到上限后再次上报不再累加，也不再发奖
	updated, err := env.exchange.RecordSessionCompletion(exchange.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.SessionsCompleted)
	assert.Equal(t, CompletionPoints, env.reloadUser(t, teacher.ID).Points)
	assert.Equal(t, CompletionPoints, env.reloadUser(t, student.ID).Points)
}

func TestCompletionPointsRaiseLevel(t *testing.T) {
	env := newTestEnv(t)

	teacher := env.createUser(t, "teacher")
	student := env.createUser(t, "student")
	require.NoError(t, env.userRepo.AddPoints(teacher.ID, 450))
	assert.Equal(t, 1, env.reloadUser(t, teacher.ID).Level)

	exchange := env.createExchange(t, teacher, student, 1)
	_, err := env.exchange.UpdateStatus(exchange.ID, model.ExchangeActive, teacher.ID)
	require.NoError(t, err)
	_, err = env.exchange.RecordSessionCompletion(exchange.ID)
	require.NoError(t, err)

	// 450 + 100 = 550，跨过 500 分门槛升到 2 级
	teacherAfter := env.reloadUser(t, teacher.ID)
	assert.Equal(t, 550, teacherAfter.Points)
	assert.Equal(t, 2, teacherAfter.Level)
}

func TestGetExchangeNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.exchange.GetExchange(404)
	assert.True(t, errors.Is(err, util.ErrNotFound))
}
