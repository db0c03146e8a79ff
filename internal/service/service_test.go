package service

import (
	"fmt"
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/repository"
	"skillswap_backend/pkg/database"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB 每个测试一个独立的内存库，表结构与生产迁移保持一致
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

type testEnv struct {
	db *gorm.DB

	userRepo     *repository.UserRepository
	skillRepo    *repository.SkillRepository
	exchangeRepo *repository.ExchangeRepository
	sessionRepo  *repository.SessionRepository
	reviewRepo   *repository.ReviewRepository
	activityRepo *repository.ActivityRepository
	messageRepo  *repository.DirectMessageRepository

	activity *ActivityService
	review   *ReviewService
	match    *MatchService
	exchange *ExchangeService
	session  *SessionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	env := &testEnv{
		db:           db,
		userRepo:     repository.NewUserRepository(db),
		skillRepo:    repository.NewSkillRepository(db),
		exchangeRepo: repository.NewExchangeRepository(db),
		sessionRepo:  repository.NewSessionRepository(db),
		reviewRepo:   repository.NewReviewRepository(db),
		activityRepo: repository.NewActivityRepository(db),
		messageRepo:  repository.NewDirectMessageRepository(db),
	}

	env.activity = NewActivityService(env.activityRepo, env.userRepo)
	env.review = NewReviewService(env.reviewRepo, env.exchangeRepo)
	env.match = NewMatchService(env.skillRepo, env.userRepo, env.review)
	env.exchange = NewExchangeService(env.exchangeRepo, env.skillRepo, env.activity, model.DefaultTotalSessions)
	env.session = NewSessionService(env.sessionRepo, env.exchange)
	return env
}

func (e *testEnv) createUser(t *testing.T, name string) *model.User {
	t.Helper()
	user := &model.User{Name: name, Email: name + "@example.com", Level: 1}
	require.NoError(t, e.userRepo.Create(user))
	return user
}

func (e *testEnv) createSkill(t *testing.T, userID uint, name string, teaching bool) *model.Skill {
	t.Helper()
	skill := &model.Skill{UserID: userID, Name: name, IsTeaching: teaching, ProficiencyLevel: "intermediate"}
	require.NoError(t, e.skillRepo.Create(skill))
	return skill
}

func (e *testEnv) createExchange(t *testing.T, teacher, student *model.User, totalSessions int) *model.Exchange {
	t.Helper()
	teacherSkill := e.createSkill(t, teacher.ID, "Teaching-"+teacher.Name, true)
	studentSkill := e.createSkill(t, student.ID, "Teaching-"+student.Name, true)
	exchange := &model.Exchange{
		TeacherID:      teacher.ID,
		StudentID:      student.ID,
		TeacherSkillID: teacherSkill.ID,
		StudentSkillID: studentSkill.ID,
		Status:         model.ExchangePending,
		TotalSessions:  totalSessions,
	}
	require.NoError(t, e.exchangeRepo.Create(exchange))
	return exchange
}

func (e *testEnv) reloadUser(t *testing.T, id uint) *model.User {
	t.Helper()
	user, err := e.userRepo.FindByID(id)
	require.NoError(t, err)
	return user
}
