package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recovery-center/internal/domain"
)

func groupFixture(t *testing.T) (*GroupService, *memUsers, *memGroups) {
	t.Helper()
	users, groups := newMemUsers(), newMemGroups()
	return NewGroupService(groups, users), users, groups
}

func TestCreateGroupMakesCreatorFirstMember(t *testing.T) {
	svc, users, _ := groupFixture(t)
	ctx := context.Background()
	uid := users.seed(domain.User{Name: "Alice", Email: "alice@example.com"})

	g, err := svc.Create(ctx, uid, "SoberAlice", "Morning Circle", 5, "addiction", "daily check-in")
	require.NoError(t, err)
	require.Len(t, g.Members, 1)
	assert.Equal(t, domain.GroupMember{UserID: uid, Nickname: "SoberAlice"}, g.Members[0])
	assert.Equal(t, uid, g.Creator)

	u, err := users.FindByID(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, g.ID, u.JoinedGroup)
}

func TestCreateGroupRejectsSecondMembership(t *testing.T) {
	svc, users, _ := groupFixture(t)
	ctx := context.Background()
	uid := users.seed(domain.User{Name: "Alice", Email: "alice@example.com"})

	_, err := svc.Create(ctx, uid, "SoberAlice", "First", 5, "", "")
	require.NoError(t, err)

	_, err = svc.Create(ctx, uid, "SoberAlice", "Second", 5, "", "")
	assert.ErrorIs(t, err, ErrAlreadyInGroup)
}

func TestJoinGroupCapacityAndSingleMembership(t *testing.T) {
	svc, users, _ := groupFixture(t)
	ctx := context.Background()
	creator := users.seed(domain.User{Name: "Alice", Email: "a@example.com"})
	bob := users.seed(domain.User{Name: "Bob", Email: "b@example.com"})
	carol := users.seed(domain.User{Name: "Carol", Email: "c@example.com"})

	g, err := svc.Create(ctx, creator, "Alice", "Pair", 2, "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Join(ctx, bob, g.ID, "QuietBob"))
	assert.ErrorIs(t, svc.Join(ctx, carol, g.ID, "Carol"), ErrGroupFull)

	other, err := svc.Create(ctx, carol, "Carol", "Overflow", 5, "", "")
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Join(ctx, bob, other.ID, "QuietBob"), ErrAlreadyInGroup)
}

func TestJoinSameGroupAgainIsNoop(t *testing.T) {
	svc, users, groups := groupFixture(t)
	ctx := context.Background()
	creator := users.seed(domain.User{Name: "Alice", Email: "a@example.com"})
	bob := users.seed(domain.User{Name: "Bob", Email: "b@example.com"})

	g, err := svc.Create(ctx, creator, "Alice", "Circle", 5, "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Join(ctx, bob, g.ID, "QuietBob"))
	require.NoError(t, svc.Join(ctx, bob, g.ID, "QuietBob"))

	stored, err := groups.FindByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Members, 2)
}

func TestLeaveGroup(t *testing.T) {
	svc, users, groups := groupFixture(t)
	ctx := context.Background()
	creator := users.seed(domain.User{Name: "Alice", Email: "a@example.com"})
	bob := users.seed(domain.User{Name: "Bob", Email: "b@example.com"})

	g, err := svc.Create(ctx, creator, "Alice", "Circle", 5, "", "")
	require.NoError(t, err)
	require.NoError(t, svc.Join(ctx, bob, g.ID, "QuietBob"))

	require.NoError(t, svc.Leave(ctx, bob, g.ID))

	stored, err := groups.FindByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Members, 1)

	u, err := users.FindByID(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, u.JoinedGroup)

	assert.ErrorIs(t, svc.Leave(ctx, bob, g.ID), ErrNotGroupMember)
}

func TestDeleteGroupCreatorOnly(t *testing.T) {
	svc, users, _ := groupFixture(t)
	ctx := context.Background()
	creator := users.seed(domain.User{Name: "Alice", Email: "a@example.com"})
	bob := users.seed(domain.User{Name: "Bob", Email: "b@example.com"})

	g, err := svc.Create(ctx, creator, "Alice", "Circle", 5, "", "")
	require.NoError(t, err)
	require.NoError(t, svc.Join(ctx, bob, g.ID, "QuietBob"))

	assert.ErrorIs(t, svc.Delete(ctx, bob, g.ID), ErrNotCreator)
	require.NoError(t, svc.Delete(ctx, creator, g.ID))
	assert.ErrorIs(t, svc.Delete(ctx, creator, g.ID), ErrNotFound)
}

func TestNicknameResolvesPerGroupName(t *testing.T) {
	svc, users, _ := groupFixture(t)
	ctx := context.Background()
	creator := users.seed(domain.User{Name: "Alice", Email: "a@example.com"})
	bob := users.seed(domain.User{Name: "Bob", Email: "b@example.com"})

	g, err := svc.Create(ctx, creator, "SoberAlice", "Circle", 5, "", "")
	require.NoError(t, err)
	require.NoError(t, svc.Join(ctx, bob, g.ID, "QuietBob"))

	name, err := svc.Nickname(ctx, bob, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "QuietBob", name)

	outsider := users.seed(domain.User{Name: "Eve", Email: "e@example.com"})
	_, err = svc.Nickname(ctx, outsider, g.ID)
	assert.ErrorIs(t, err, ErrNotGroupMember)
}
