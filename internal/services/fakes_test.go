package services

import (
	"time"

	"github.com/dong279/mumu-express/internal/models"
	"github.com/dong279/mumu-express/internal/repositories"
)

// Общие in-memory фейки репозиториев для юнит-тестов сервисного слоя.

// ---- refresh tokens

type fakeRefreshEntry struct {
	id        int64
	userID    int
	revoked   bool
	expiresAt time.Time
}

type fakeRefreshTokenRepo struct {
	nextID      int64
	tokens      map[string]*fakeRefreshEntry
	ownerStatus map[int]string // по умолчанию active
	touched     []int64
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: map[string]*fakeRefreshEntry{}, ownerStatus: map[int]string{}}
}

func (r *fakeRefreshTokenRepo) Create(userID int, token, deviceType, deviceInfo string, expiresAt time.Time) (int64, error) {
	r.nextID++
	r.tokens[token] = &fakeRefreshEntry{id: r.nextID, userID: userID, expiresAt: expiresAt}
	return r.nextID, nil
}

func (r *fakeRefreshTokenRepo) GetLive(token string) (*repositories.RefreshTokenWithOwner, error) {
	e, ok := r.tokens[token]
	if !ok || e.revoked || time.Now().After(e.expiresAt) {
		return nil, nil
	}
	status, ok := r.ownerStatus[e.userID]
	if !ok {
		status = models.UserStatusActive
	}
	return &repositories.RefreshTokenWithOwner{
		RefreshToken: models.RefreshToken{RefreshTokenID: e.id, UserID: e.userID, Token: token, ExpiresAt: e.expiresAt},
		OwnerStatus:  status,
	}, nil
}

func (r *fakeRefreshTokenRepo) TouchLastUsed(refreshTokenID int64) error {
	r.touched = append(r.touched, refreshTokenID)
	return nil
}

func (r *fakeRefreshTokenRepo) Revoke(token string) error {
	if e, ok := r.tokens[token]; ok {
		e.revoked = true
	}
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeAllForUser(userID int) error {
	for _, e := range r.tokens {
		if e.userID == userID {
			e.revoked = true
		}
	}
	return nil
}

// ---- users

type fakeUserRepo struct {
	nextID int
	users  map[int]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int]*models.User{}}
}

func (r *fakeUserRepo) Create(user *models.User, passwordHash string) error {
	r.nextID++
	user.UserID = r.nextID
	user.PasswordHash = passwordHash
	user.Role = "user"
	user.Status = models.UserStatusActive
	user.CreatedAt = time.Now()
	cp := *user
	r.users[user.UserID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(userID int) (*models.User, error) {
	u, ok := r.users[userID]
	if !ok || u.DeletedAt != nil {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByLoginID(loginID string) (*models.User, error) {
	for _, u := range r.users {
		if u.LoginID == loginID && u.DeletedAt == nil {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByPhone(phone string) (*models.User, error) {
	for _, u := range r.users {
		if u.Phone == phone && u.DeletedAt == nil {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) LoginIDExists(loginID string) (bool, error) {
	for _, u := range r.users {
		if u.LoginID == loginID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) PhoneExists(phone string) (bool, error) {
	for _, u := range r.users {
		if u.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) UpdateProfile(userID int, upd repositories.ProfileUpdate) error {
	u := r.users[userID]
	if u == nil {
		return nil
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	return nil
}

func (r *fakeUserRepo) UpdatePassword(userID int, passwordHash string) error {
	if u := r.users[userID]; u != nil {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (r *fakeUserRepo) TouchLastLogin(userID int) error { return nil }

func (r *fakeUserRepo) SetPhoneVerified(userID int, phone string) error {
	if u := r.users[userID]; u != nil {
		u.Phone = phone
		u.PhoneVerified = true
	}
	return nil
}

func (r *fakeUserRepo) SoftDelete(userID int, reason string) error {
	if u := r.users[userID]; u != nil {
		now := time.Now()
		u.DeletedAt = &now
		u.Status = models.UserStatusInactive
	}
	return nil
}

func (r *fakeUserRepo) Block(blockerID, blockedID int) error { return nil }

func (r *fakeUserRepo) Unblock(blockerID, blockedID int) (bool, error) { return false, nil }

func (r *fakeUserRepo) ListBlocked(blockerID, limit, offset int) ([]*models.PublicUser, error) {
	return nil, nil
}

func newTestUser(loginID, phone string) *models.User {
	return &models.User{
		LoginID:       loginID,
		Name:          "Test User",
		Phone:         phone,
		TermsAgreed:   true,
		PrivacyAgreed: true,
	}
}

// ---- phone verifications

type fakePhoneVerificationRepo struct {
	nextID int64
	rows   []*models.PhoneVerification
}

func newFakePhoneVerificationRepo() *fakePhoneVerificationRepo {
	return &fakePhoneVerificationRepo{}
}

func (r *fakePhoneVerificationRepo) Create(phone, code string, expiresAt time.Time) (int64, error) {
	r.nextID++
	r.rows = append(r.rows, &models.PhoneVerification{
		PhoneVerificationID: r.nextID,
		Phone:               phone,
		Code:                code,
		ExpiresAt:           expiresAt,
		CreatedAt:           time.Now(),
	})
	return r.nextID, nil
}

func (r *fakePhoneVerificationRepo) HasRecent(phone string, since time.Time) (bool, error) {
	for _, v := range r.rows {
		if v.Phone == phone && v.CreatedAt.After(since) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePhoneVerificationRepo) GetLatestUsable(phone string) (*models.PhoneVerification, error) {
	var latest *models.PhoneVerification
	for _, v := range r.rows {
		if v.Phone != phone || v.Verified || time.Now().After(v.ExpiresAt) {
			continue
		}
		if latest == nil || v.CreatedAt.After(latest.CreatedAt) {
			latest = v
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *fakePhoneVerificationRepo) find(id int64) *models.PhoneVerification {
	for _, v := range r.rows {
		if v.PhoneVerificationID == id {
			return v
		}
	}
	return nil
}

func (r *fakePhoneVerificationRepo) IncrementAttempts(id int64) (int, error) {
	v := r.find(id)
	v.Attempts++
	return v.Attempts, nil
}

func (r *fakePhoneVerificationRepo) MarkVerified(id int64) error {
	v := r.find(id)
	now := time.Now()
	v.Verified = true
	v.VerifiedAt = &now
	return nil
}

func (r *fakePhoneVerificationRepo) Invalidate(id int64) error {
	r.find(id).Verified = true
	return nil
}

// ---- password resets

type fakePasswordResetRepo struct {
	nextID int64
	rows   []*models.PasswordReset
}

func newFakePasswordResetRepo() *fakePasswordResetRepo {
	return &fakePasswordResetRepo{}
}

func (r *fakePasswordResetRepo) Create(userID int, token string, expiresAt time.Time) (*models.PasswordReset, error) {
	r.nextID++
	pr := &models.PasswordReset{
		PasswordResetID: r.nextID,
		UserID:          userID,
		Token:           token,
		ExpiresAt:       expiresAt,
		CreatedAt:       time.Now(),
	}
	r.rows = append(r.rows, pr)
	cp := *pr
	return &cp, nil
}

func (r *fakePasswordResetRepo) InvalidateUnusedForUser(userID int) error {
	now := time.Now()
	for _, pr := range r.rows {
		if pr.UserID == userID && pr.UsedAt == nil {
			t := now
			pr.UsedAt = &t
		}
	}
	return nil
}

func (r *fakePasswordResetRepo) GetByToken(token string) (*models.PasswordReset, error) {
	for _, pr := range r.rows {
		if pr.Token == token {
			cp := *pr
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePasswordResetRepo) MarkUsed(id int64) error {
	for _, pr := range r.rows {
		if pr.PasswordResetID == id {
			now := time.Now()
			pr.UsedAt = &now
		}
	}
	return nil
}

// latestToken — последний выданный токен (для теста вместо SMS).
func (r *fakePasswordResetRepo) latestToken() string {
	if len(r.rows) == 0 {
		return ""
	}
	return r.rows[len(r.rows)-1].Token
}

// ---- follows

// fakeFollowRepo повторяет транзакционную семантику: счётчики двигаются
// только когда ребро реально создано/удалено, декремент с полом в ноль.
type fakeFollowRepo struct {
	targets        map[int]bool
	edges          map[[2]int]bool
	followerCount  map[int]int
	followingCount map[int]int
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{
		targets:        map[int]bool{},
		edges:          map[[2]int]bool{},
		followerCount:  map[int]int{},
		followingCount: map[int]int{},
	}
}

func (r *fakeFollowRepo) TargetExists(userID int) (bool, error) {
	return r.targets[userID], nil
}

func (r *fakeFollowRepo) Follow(followerID, targetID int) (bool, error) {
	key := [2]int{followerID, targetID}
	if r.edges[key] {
		return false, nil
	}
	r.edges[key] = true
	r.followerCount[targetID]++
	r.followingCount[followerID]++
	return true, nil
}

func (r *fakeFollowRepo) Unfollow(followerID, targetID int) (bool, error) {
	key := [2]int{followerID, targetID}
	if !r.edges[key] {
		return false, nil
	}
	delete(r.edges, key)
	if r.followerCount[targetID] > 0 {
		r.followerCount[targetID]--
	}
	if r.followingCount[followerID] > 0 {
		r.followingCount[followerID]--
	}
	return true, nil
}

func (r *fakeFollowRepo) ListFollowers(userID, limit, offset int) ([]*models.PublicUser, error) {
	return nil, nil
}

func (r *fakeFollowRepo) ListFollowing(userID, limit, offset int) ([]*models.PublicUser, error) {
	return nil, nil
}

// ---- community

type fakeCommunityRepo struct {
	posts map[int64]*models.CommunityPost
}

func newFakeCommunityRepo() *fakeCommunityRepo {
	return &fakeCommunityRepo{posts: map[int64]*models.CommunityPost{}}
}

func (r *fakeCommunityRepo) CreatePost(post *models.CommunityPost, media []models.CommunityMedia) error {
	post.CommunityID = int64(len(r.posts) + 1)
	r.posts[post.CommunityID] = post
	return nil
}

func (r *fakeCommunityRepo) GetPost(communityID int64) (*models.CommunityPost, error) {
	return r.posts[communityID], nil
}

func (r *fakeCommunityRepo) ListPosts(f models.PostFilter) ([]*models.CommunityPost, error) {
	return nil, nil
}

func (r *fakeCommunityRepo) ListBest(limit int) ([]*models.CommunityPost, error) { return nil, nil }

func (r *fakeCommunityRepo) UpdatePost(communityID int64, userID int, upd repositories.PostUpdate) (bool, error) {
	p, ok := r.posts[communityID]
	if !ok || p.UserID != userID {
		return false, nil
	}
	return true, nil
}

func (r *fakeCommunityRepo) SoftDeletePost(communityID int64, userID int) (bool, error) {
	p, ok := r.posts[communityID]
	if !ok || p.UserID != userID {
		return false, nil
	}
	delete(r.posts, communityID)
	return true, nil
}

func (r *fakeCommunityRepo) PostExists(communityID int64) (bool, error) {
	_, ok := r.posts[communityID]
	return ok, nil
}

func (r *fakeCommunityRepo) PostOwner(communityID int64) (int, error) {
	p, ok := r.posts[communityID]
	if !ok {
		return 0, nil
	}
	return p.UserID, nil
}

func (r *fakeCommunityRepo) OwnedBy(communityID int64, userID int) (bool, error) {
	p, ok := r.posts[communityID]
	return ok && p.UserID == userID, nil
}

func (r *fakeCommunityRepo) AddMedia(communityID int64, media []models.CommunityMedia) error {
	return nil
}

func (r *fakeCommunityRepo) RemoveMedia(communityID, mediaID int64) (bool, error) { return false, nil }

func (r *fakeCommunityRepo) ListMedia(communityID int64) ([]models.CommunityMedia, error) {
	return nil, nil
}

type fakeCommentRepo struct {
	nextID int64
}

func (r *fakeCommentRepo) Create(comment *models.Comment) error {
	r.nextID++
	comment.CommentID = r.nextID
	return nil
}

func (r *fakeCommentRepo) List(communityID int64, limit, offset int) ([]*models.Comment, error) {
	return nil, nil
}

func (r *fakeCommentRepo) Update(commentID int64, userID int, content string) (*models.Comment, error) {
	return nil, nil
}

func (r *fakeCommentRepo) SoftDelete(commentID int64, userID int) (bool, error) { return false, nil }

// fakeEngagementRepo повторяет toggle-семантику: дельта только из реально
// вставленного/удалённого ребра, декремент с полом в ноль.
type fakeEngagementRepo struct {
	likeEdges     map[[2]int64]bool
	bookmarkEdges map[[2]int64]bool
	likeCounts    map[int64]int
	bookmarkCount map[int64]int
}

func newFakeEngagementRepo() *fakeEngagementRepo {
	return &fakeEngagementRepo{
		likeEdges:     map[[2]int64]bool{},
		bookmarkEdges: map[[2]int64]bool{},
		likeCounts:    map[int64]int{},
		bookmarkCount: map[int64]int{},
	}
}

func toggleEdge(edges map[[2]int64]bool, counts map[int64]int, userID int, targetID int64) (bool, int) {
	key := [2]int64{int64(userID), targetID}
	if !edges[key] {
		edges[key] = true
		counts[targetID]++
		return true, counts[targetID]
	}
	delete(edges, key)
	if counts[targetID] > 0 {
		counts[targetID]--
	}
	return false, counts[targetID]
}

func (r *fakeEngagementRepo) ToggleCommunityLike(userID int, communityID int64) (bool, int, error) {
	liked, count := toggleEdge(r.likeEdges, r.likeCounts, userID, communityID)
	return liked, count, nil
}

func (r *fakeEngagementRepo) ToggleCommentLike(userID int, commentID int64) (bool, int, error) {
	liked, count := toggleEdge(r.likeEdges, r.likeCounts, userID, -commentID)
	return liked, count, nil
}

func (r *fakeEngagementRepo) ToggleBookmark(userID int, communityID int64) (bool, int, error) {
	marked, count := toggleEdge(r.bookmarkEdges, r.bookmarkCount, userID, communityID)
	return marked, count, nil
}

func (r *fakeEngagementRepo) ListBookmarks(userID, limit, offset int) ([]*models.CommunityPost, error) {
	return nil, nil
}

// ---- notifications

type notifyCall struct {
	userID      int
	ntype       string
	relatedType string
	relatedID   *int64
}

type fakeNotificationService struct {
	calls []notifyCall
}

func (s *fakeNotificationService) Notify(userID int, ntype, title, content, relatedType string, relatedID *int64) {
	s.calls = append(s.calls, notifyCall{userID: userID, ntype: ntype, relatedType: relatedType, relatedID: relatedID})
}

func (s *fakeNotificationService) List(userID, limit, offset int, unreadOnly bool) ([]*models.Notification, error) {
	return nil, nil
}

func (s *fakeNotificationService) UnreadCount(userID int) (int, error) { return 0, nil }

func (s *fakeNotificationService) MarkRead(notificationID int64, userID int) (bool, error) {
	return false, nil
}

func (s *fakeNotificationService) MarkAllRead(userID int) (int64, error) { return 0, nil }

func (s *fakeNotificationService) Delete(notificationID int64, userID int) (bool, error) {
	return false, nil
}

func (s *fakeNotificationService) RegisterDevice(userID int, deviceType, fcmToken, deviceName string) (*models.DeviceToken, error) {
	return nil, nil
}

func (s *fakeNotificationService) RemoveDevice(userID int, fcmToken string) (bool, error) {
	return false, nil
}
