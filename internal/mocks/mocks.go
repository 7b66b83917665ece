package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"social-service/internal/models"
	"social-service/internal/repositories"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) Create(ctx context.Context, name, email, passwordHash, description, avatar string) (models.User, error) {
	args := m.Called(ctx, name, email, passwordHash, description, avatar)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetByID(ctx context.Context, userID int) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) UpdateProfile(ctx context.Context, userID int, name, description, avatar string) (models.User, error) {
	args := m.Called(ctx, userID, name, description, avatar)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) UpdatePassword(ctx context.Context, userID int, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

func (m *UserRepositoryMock) ToggleSavedPost(ctx context.Context, userID int, postID int) (models.User, error) {
	args := m.Called(ctx, userID, postID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) BulkProfiles(ctx context.Context, ids []int) ([]models.Profile, error) {
	args := m.Called(ctx, ids)
	var profiles []models.Profile
	if val := args.Get(0); val != nil {
		profiles = val.([]models.Profile)
	}
	return profiles, args.Error(1)
}

type FriendRepositoryMock struct {
	mock.Mock
}

func (m *FriendRepositoryMock) FindEdge(ctx context.Context, userA, userB int) (models.Friendship, error) {
	args := m.Called(ctx, userA, userB)
	var edge models.Friendship
	if val := args.Get(0); val != nil {
		edge = val.(models.Friendship)
	}
	return edge, args.Error(1)
}

func (m *FriendRepositoryMock) GetEdge(ctx context.Context, edgeID int) (models.Friendship, error) {
	args := m.Called(ctx, edgeID)
	var edge models.Friendship
	if val := args.Get(0); val != nil {
		edge = val.(models.Friendship)
	}
	return edge, args.Error(1)
}

func (m *FriendRepositoryMock) CreateEdge(ctx context.Context, requesterID, receiverID int) (models.Friendship, error) {
	args := m.Called(ctx, requesterID, receiverID)
	var edge models.Friendship
	if val := args.Get(0); val != nil {
		edge = val.(models.Friendship)
	}
	return edge, args.Error(1)
}

func (m *FriendRepositoryMock) DeleteEdge(ctx context.Context, edgeID int) error {
	args := m.Called(ctx, edgeID)
	return args.Error(0)
}

func (m *FriendRepositoryMock) ListEdgesForUser(ctx context.Context, userID int) ([]models.FriendshipView, error) {
	args := m.Called(ctx, userID)
	var edges []models.FriendshipView
	if val := args.Get(0); val != nil {
		edges = val.([]models.FriendshipView)
	}
	return edges, args.Error(1)
}

func (m *FriendRepositoryMock) ListAllEdges(ctx context.Context) ([]models.Friendship, error) {
	args := m.Called(ctx)
	var edges []models.Friendship
	if val := args.Get(0); val != nil {
		edges = val.([]models.Friendship)
	}
	return edges, args.Error(1)
}

func (m *FriendRepositoryMock) AppendMessage(ctx context.Context, edgeID, senderID int, content string) ([]models.FriendMessage, error) {
	args := m.Called(ctx, edgeID, senderID, content)
	var msgs []models.FriendMessage
	if val := args.Get(0); val != nil {
		msgs = val.([]models.FriendMessage)
	}
	return msgs, args.Error(1)
}

func (m *FriendRepositoryMock) ListMessages(ctx context.Context, edgeID int) ([]models.FriendMessage, error) {
	args := m.Called(ctx, edgeID)
	var msgs []models.FriendMessage
	if val := args.Get(0); val != nil {
		msgs = val.([]models.FriendMessage)
	}
	return msgs, args.Error(1)
}

func (m *FriendRepositoryMock) HasRequest(ctx context.Context, requesterID, receiverID int) (bool, error) {
	args := m.Called(ctx, requesterID, receiverID)
	return args.Bool(0), args.Error(1)
}

func (m *FriendRepositoryMock) AddRequest(ctx context.Context, requesterID, receiverID int) error {
	args := m.Called(ctx, requesterID, receiverID)
	return args.Error(0)
}

func (m *FriendRepositoryMock) RemoveRequest(ctx context.Context, requesterID, receiverID int) error {
	args := m.Called(ctx, requesterID, receiverID)
	return args.Error(0)
}

func (m *FriendRepositoryMock) RemovePairRequests(ctx context.Context, userA, userB int) error {
	args := m.Called(ctx, userA, userB)
	return args.Error(0)
}

func (m *FriendRepositoryMock) ListRequestersFor(ctx context.Context, receiverID int) ([]models.Profile, error) {
	args := m.Called(ctx, receiverID)
	var profiles []models.Profile
	if val := args.Get(0); val != nil {
		profiles = val.([]models.Profile)
	}
	return profiles, args.Error(1)
}

type PostRepositoryMock struct {
	mock.Mock
}

func (m *PostRepositoryMock) Create(ctx context.Context, creatorID int, title, content string, tags []string, file string) (models.Post, error) {
	args := m.Called(ctx, creatorID, title, content, tags, file)
	var post models.Post
	if val := args.Get(0); val != nil {
		post = val.(models.Post)
	}
	return post, args.Error(1)
}

func (m *PostRepositoryMock) GetByID(ctx context.Context, postID int) (models.Post, error) {
	args := m.Called(ctx, postID)
	var post models.Post
	if val := args.Get(0); val != nil {
		post = val.(models.Post)
	}
	return post, args.Error(1)
}

func (m *PostRepositoryMock) GetByIDAndCreator(ctx context.Context, postID, creatorID int) (models.Post, error) {
	args := m.Called(ctx, postID, creatorID)
	var post models.Post
	if val := args.Get(0); val != nil {
		post = val.(models.Post)
	}
	return post, args.Error(1)
}

func (m *PostRepositoryMock) List(ctx context.Context, page, limit int) ([]models.Post, int, error) {
	args := m.Called(ctx, page, limit)
	var posts []models.Post
	if val := args.Get(0); val != nil {
		posts = val.([]models.Post)
	}
	return posts, args.Int(1), args.Error(2)
}

func (m *PostRepositoryMock) ListByCreator(ctx context.Context, creatorID int) ([]models.Post, int, error) {
	args := m.Called(ctx, creatorID)
	var posts []models.Post
	if val := args.Get(0); val != nil {
		posts = val.([]models.Post)
	}
	return posts, args.Int(1), args.Error(2)
}

func (m *PostRepositoryMock) ListByIDs(ctx context.Context, ids []int) ([]models.Post, int, error) {
	args := m.Called(ctx, ids)
	var posts []models.Post
	if val := args.Get(0); val != nil {
		posts = val.([]models.Post)
	}
	return posts, args.Int(1), args.Error(2)
}

func (m *PostRepositoryMock) Search(ctx context.Context, query string, page, limit int) ([]models.Post, int, error) {
	args := m.Called(ctx, query, page, limit)
	var posts []models.Post
	if val := args.Get(0); val != nil {
		posts = val.([]models.Post)
	}
	return posts, args.Int(1), args.Error(2)
}

func (m *PostRepositoryMock) Update(ctx context.Context, postID int, title, content string, tags []string, file string) (models.Post, error) {
	args := m.Called(ctx, postID, title, content, tags, file)
	var post models.Post
	if val := args.Get(0); val != nil {
		post = val.(models.Post)
	}
	return post, args.Error(1)
}

func (m *PostRepositoryMock) Delete(ctx context.Context, postID int) (models.Post, error) {
	args := m.Called(ctx, postID)
	var post models.Post
	if val := args.Get(0); val != nil {
		post = val.(models.Post)
	}
	return post, args.Error(1)
}

func (m *PostRepositoryMock) SetLikes(ctx context.Context, postID int, likes []int64) (models.Post, error) {
	args := m.Called(ctx, postID, likes)
	var post models.Post
	if val := args.Get(0); val != nil {
		post = val.(models.Post)
	}
	return post, args.Error(1)
}

type CommentRepositoryMock struct {
	mock.Mock
}

func (m *CommentRepositoryMock) Create(ctx context.Context, postID, userID int, content string) (models.Comment, error) {
	args := m.Called(ctx, postID, userID, content)
	var comment models.Comment
	if val := args.Get(0); val != nil {
		comment = val.(models.Comment)
	}
	return comment, args.Error(1)
}

func (m *CommentRepositoryMock) ListForPost(ctx context.Context, postID int) ([]models.Comment, error) {
	args := m.Called(ctx, postID)
	var comments []models.Comment
	if val := args.Get(0); val != nil {
		comments = val.([]models.Comment)
	}
	return comments, args.Error(1)
}

func (m *CommentRepositoryMock) GetByIDAndUser(ctx context.Context, commentID, userID int) (models.Comment, error) {
	args := m.Called(ctx, commentID, userID)
	var comment models.Comment
	if val := args.Get(0); val != nil {
		comment = val.(models.Comment)
	}
	return comment, args.Error(1)
}

func (m *CommentRepositoryMock) Update(ctx context.Context, commentID int, content string) (models.Comment, error) {
	args := m.Called(ctx, commentID, content)
	var comment models.Comment
	if val := args.Get(0); val != nil {
		comment = val.(models.Comment)
	}
	return comment, args.Error(1)
}

func (m *CommentRepositoryMock) Delete(ctx context.Context, commentID int) error {
	args := m.Called(ctx, commentID)
	return args.Error(0)
}

var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ repositories.FriendRepository = (*FriendRepositoryMock)(nil)
var _ repositories.PostRepository = (*PostRepositoryMock)(nil)
var _ repositories.CommentRepository = (*CommentRepositoryMock)(nil)
