package service

import (
	"errors"
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMatchesMutual(t *testing.T) {
	env := newTestEnv(t)

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	aliceTeaches := env.createSkill(t, alice.ID, "Python", true)
	aliceLearns := env.createSkill(t, alice.ID, "JavaScript", false)
	env.createSkill(t, bob.ID, "JavaScript", true)
	env.createSkill(t, bob.ID, "Python", false)

	matches, err := env.match.FindMatches(alice.ID, aliceTeaches.ID, aliceLearns.ID)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	m := matches[0]
	assert.Equal(t, bob.ID, m.UserID)
	assert.Equal(t, "bob", m.Name)
	assert.Equal(t, "JavaScript", m.TeachingSkill.Name)
	assert.Equal(t, "Python", m.LearningSkill.Name)
	assert.Equal(t, matchPercentage(bob.ID), m.MatchPercentage)
	assert.GreaterOrEqual(t, m.MatchPercentage, 70)
	assert.LessOrEqual(t, m.MatchPercentage, 94)
	assert.Equal(t, 0.0, m.Rating)
	assert.Equal(t, 0, m.RatingCount)
}

func TestFindMatchesRequiresMutualInterest(t *testing.T) {
	env := newTestEnv(t)

	alice := env.createUser(t, "alice")
	carol := env.createUser(t, "carol")

	aliceTeaches := env.createSkill(t, alice.ID, "Python", true)
	aliceLearns := env.createSkill(t, alice.ID, "JavaScript", false)

	// carol 教 JavaScript 但想学的是西班牙语，不构成互补
	env.createSkill(t, carol.ID, "JavaScript", true)
	env.createSkill(t, carol.ID, "Spanish", false)

	matches, err := env.match.FindMatches(alice.ID, aliceTeaches.ID, aliceLearns.ID)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindMatchesDeduplicatesCandidates(t *testing.T) {
	env := newTestEnv(t)

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	aliceTeaches := env.createSkill(t, alice.ID, "Python", true)
	aliceLearns := env.createSkill(t, alice.ID, "JavaScript", false)

	// bob 有两条重复的 JavaScript 教授记录，结果里只应出现一次
	env.createSkill(t, bob.ID, "JavaScript", true)
	env.createSkill(t, bob.ID, "JavaScript", true)
	env.createSkill(t, bob.ID, "Python", false)

	matches, err := env.match.FindMatches(alice.ID, aliceTeaches.ID, aliceLearns.ID)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, bob.ID, matches[0].UserID)
}

func TestFindMatchesSortedByPercentage(t *testing.T) {
	env := newTestEnv(t)

	alice := env.createUser(t, "alice")
	aliceTeaches := env.createSkill(t, alice.ID, "Python", true)
	aliceLearns := env.createSkill(t, alice.ID, "JavaScript", false)

	for _, name := range []string{"bob", "carol", "dave", "erin"} {
		u := env.createUser(t, name)
		env.createSkill(t, u.ID, "JavaScript", true)
		env.createSkill(t, u.ID, "Python", false)
	}

	matches, err := env.match.FindMatches(alice.ID, aliceTeaches.ID, aliceLearns.ID)
	require.NoError(t, err)
	require.Len(t, matches, 4)

	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].MatchPercentage, matches[i].MatchPercentage)
	}
}

func TestFindMatchesAttachesRating(t *testing.T) {
	env := newTestEnv(t)

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	aliceTeaches := env.createSkill(t, alice.ID, "Python", true)
	aliceLearns := env.createSkill(t, alice.ID, "JavaScript", false)
	env.createSkill(t, bob.ID, "JavaScript", true)
	env.createSkill(t, bob.ID, "Python", false)

	exchange := env.createExchange(t, bob, alice, 3)
	for _, rating := range []int{5, 4} {
		require.NoError(t, env.reviewRepo.Create(&model.Review{
			ExchangeID: exchange.ID,
			ReviewerID: alice.ID,
			ReviewedID: bob.ID,
			Rating:     rating,
		}))
	}

	matches, err := env.match.FindMatches(alice.ID, aliceTeaches.ID, aliceLearns.ID)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 4.5, matches[0].Rating)
	assert.Equal(t, 2, matches[0].RatingCount)
}

func TestFindMatchesValidatesSkillDirection(t *testing.T) {
	env := newTestEnv(t)

	alice := env.createUser(t, "alice")
	teaches := env.createSkill(t, alice.ID, "Python", true)
	learns := env.createSkill(t, alice.ID, "JavaScript", false)

	// 两个参数的方向反了
	_, err := env.match.FindMatches(alice.ID, learns.ID, teaches.ID)
	assert.True(t, errors.Is(err, util.ErrInvalidInput))
}

func TestFindMatchesRejectsForeignSkill(t *testing.T) {
	env := newTestEnv(t)

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	bobTeaches := env.createSkill(t, bob.ID, "Python", true)
	aliceLearns := env.createSkill(t, alice.ID, "JavaScript", false)

	_, err := env.match.FindMatches(alice.ID, bobTeaches.ID, aliceLearns.ID)
	assert.True(t, errors.Is(err, util.ErrForbidden))
}

func TestFindMatchesUnknownSkill(t *testing.T) {
	env := newTestEnv(t)

	alice := env.createUser(t, "alice")
	aliceLearns := env.createSkill(t, alice.ID, "JavaScript", false)

	_, err := env.match.FindMatches(alice.ID, 9999, aliceLearns.ID)
	assert.True(t, errors.Is(err, util.ErrNotFound))
}

func TestMatchPercentageDeterministicRange(t *testing.T) {
	for id := uint(1); id <= 200; id++ {
		p := matchPercentage(id)
		assert.GreaterOrEqual(t, p, 70)
		assert.LessOrEqual(t, p, 94)
		assert.Equal(t, p, matchPercentage(id))
	}
}
