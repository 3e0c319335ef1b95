package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary  Has the user liked the post
// @Tags     likes
// @Produce  json
// @Param    uid  path      int  true  "user id"
// @Param    pid  path      int  true  "post id"
// @Success  200  {object}  socialfeed.LikeStatus
// @Router   /api/users/{uid}/posts/{pid}/likes [get]
// @Security BearerAuth
func (h *Handler) checkLike(c *gin.Context) {
	uid, pid, ok := uidPid(c)
	if !ok {
		return
	}
	st, err := h.services.Likes.Status(c.Request.Context(), uid, pid)
	if err != nil {
		h.writeServiceError(c, "like_status_failed", err, "uid", uid, "pid", pid)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary  Like a post
// @Tags     likes
// @Produce  json
// @Param    uid  path      int  true  "user id"
// @Param    pid  path      int  true  "post id"
// @Success  201  {object}  socialfeed.Like
// @Failure  409  {object}  map[string]string
// @Router   /api/users/{uid}/posts/{pid}/likes [post]
// @Security BearerAuth
func (h *Handler) like(c *gin.Context) {
	uid, pid, ok := uidPid(c)
	if !ok {
		return
	}
	l, err := h.services.Likes.Like(c.Request.Context(), uid, pid)
	if err != nil {
		h.writeServiceError(c, "like_failed", err, "uid", uid, "pid", pid)
		return
	}
	c.JSON(http.StatusCreated, l)
}

// @Summary  Unlike a post
// @Tags     likes
// @Param    uid  path  int  true  "user id"
// @Param    pid  path  int  true  "post id"
// @Success  204
// @Failure  404  {object}  map[string]string
// @Router   /api/users/{uid}/posts/{pid}/likes [delete]
// @Security BearerAuth
func (h *Handler) unlike(c *gin.Context) {
	uid, pid, ok := uidPid(c)
	if !ok {
		return
	}
	if err := h.services.Likes.Unlike(c.Request.Context(), uid, pid); err != nil {
		h.writeServiceError(c, "unlike_failed", err, "uid", uid, "pid", pid)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary  List likes of a post
// @Tags     likes
// @Produce  json
// @Param    pid         path   int   true   "post id"
// @Param    page_size   query  int   false  "page size"
// @Param    last_id     query  int   false  "cursor"
// @Param    descending  query  bool  false  "newest first"
// @Success  200         {array}  socialfeed.Like
// @Router   /api/posts/{pid}/likes [get]
// @Security BearerAuth
func (h *Handler) listLikes(c *gin.Context) {
	pid, ok := intParam(c, "pid")
	if !ok {
		return
	}
	page, ok := pageQuery(c, true)
	if !ok {
		return
	}
	likes, err := h.services.Likes.ListForPost(c.Request.Context(), pid, page)
	if err != nil {
		h.writeServiceError(c, "likes_list_failed", err, "pid", pid)
		return
	}
	c.JSON(http.StatusOK, nonNil(likes))
}

type commentRequest struct {
	Content string `json:"content" binding:"required" example:"Nice post!"`
}

// @Summary  Comment on a post
// @Tags     comments
// @Accept   json
// @Produce  json
// @Param    uid    path      int             true  "user id"
// @Param    pid    path      int             true  "post id"
// @Param    input  body      commentRequest  true  "comment"
// @Success  201    {object}  socialfeed.Comment
// @Failure  400    {object}  map[string]string
// @Router   /api/users/{uid}/posts/{pid}/comments [post]
// @Security BearerAuth
func (h *Handler) addComment(c *gin.Context) {
	uid, pid, ok := uidPid(c)
	if !ok {
		return
	}
	var input commentRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	cm, err := h.services.Comments.Create(c.Request.Context(), uid, pid, input.Content)
	if err != nil {
		h.writeServiceError(c, "comment_create_failed", err, "uid", uid, "pid", pid)
		return
	}
	c.JSON(http.StatusCreated, cm)
}

// @Summary  List comments of a post
// @Tags     comments
// @Produce  json
// @Param    pid         path   int   true   "post id"
// @Param    page_size   query  int   false  "page size"
// @Param    last_id     query  int   false  "cursor"
// @Param    descending  query  bool  false  "newest first"
// @Success  200         {array}  socialfeed.Comment
// @Router   /api/posts/{pid}/comments [get]
// @Security BearerAuth
func (h *Handler) listComments(c *gin.Context) {
	pid, ok := intParam(c, "pid")
	if !ok {
		return
	}
	page, ok := pageQuery(c, true)
	if !ok {
		return
	}
	comments, err := h.services.Comments.ListForPost(c.Request.Context(), pid, page)
	if err != nil {
		h.writeServiceError(c, "comments_list_failed", err, "pid", pid)
		return
	}
	c.JSON(http.StatusOK, nonNil(comments))
}

// @Summary  A user's comments on a post
// @Tags     comments
// @Produce  json
// @Param    uid  path     int  true  "user id"
// @Param    pid  path     int  true  "post id"
// @Success  200  {array}  socialfeed.Comment
// @Router   /api/users/{uid}/posts/{pid}/comments [get]
// @Security BearerAuth
func (h *Handler) listUserComments(c *gin.Context) {
	uid, pid, ok := uidPid(c)
	if !ok {
		return
	}
	page, ok := pageQuery(c, true)
	if !ok {
		return
	}
	comments, err := h.services.Comments.ListByUserOnPost(c.Request.Context(), uid, pid, page)
	if err != nil {
		h.writeServiceError(c, "user_comments_failed", err, "uid", uid, "pid", pid)
		return
	}
	c.JSON(http.StatusOK, nonNil(comments))
}

// @Summary  Does the user follow another
// @Tags     follows
// @Produce  json
// @Param    uid           path      int  true  "follower id"
// @Param    followed_uid  path      int  true  "followed id"
// @Success  200           {object}  socialfeed.FollowStatus
// @Router   /api/users/{uid}/follows/{followed_uid} [get]
// @Security BearerAuth
func (h *Handler) checkFollow(c *gin.Context) {
	uid, followed, ok := followPair(c)
	if !ok {
		return
	}
	st, err := h.services.Follows.Status(c.Request.Context(), uid, followed)
	if err != nil {
		h.writeServiceError(c, "follow_status_failed", err, "uid", uid, "followed_uid", followed)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary  Follow a user
// @Tags     follows
// @Produce  json
// @Param    uid           path      int  true  "follower id"
// @Param    followed_uid  path      int  true  "followed id"
// @Success  201           {object}  socialfeed.Follow
// @Failure  400           {object}  map[string]string
// @Failure  409           {object}  map[string]string
// @Router   /api/users/{uid}/follows/{followed_uid} [post]
// @Security BearerAuth
func (h *Handler) follow(c *gin.Context) {
	uid, followed, ok := followPair(c)
	if !ok {
		return
	}
	f, err := h.services.Follows.Follow(c.Request.Context(), uid, followed)
	if err != nil {
		h.writeServiceError(c, "follow_failed", err, "uid", uid, "followed_uid", followed)
		return
	}
	c.JSON(http.StatusCreated, f)
}

// @Summary  Unfollow a user
// @Tags     follows
// @Param    uid           path  int  true  "follower id"
// @Param    followed_uid  path  int  true  "followed id"
// @Success  204
// @Failure  404  {object}  map[string]string
// @Router   /api/users/{uid}/follows/{followed_uid} [delete]
// @Security BearerAuth
func (h *Handler) unfollow(c *gin.Context) {
	uid, followed, ok := followPair(c)
	if !ok {
		return
	}
	if err := h.services.Follows.Unfollow(c.Request.Context(), uid, followed); err != nil {
		h.writeServiceError(c, "unfollow_failed", err, "uid", uid, "followed_uid", followed)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary  Users followed by a user
// @Tags     follows
// @Produce  json
// @Param    uid             path   int  true   "user id"
// @Param    page_size       query  int  false  "page size"
// @Param    last_follow_id  query  int  false  "cursor (alias last_id)"
// @Success  200             {array}  socialfeed.UserSummary
// @Router   /api/users/{uid}/follows [get]
// @Security BearerAuth
func (h *Handler) listFollowing(c *gin.Context) {
	uid, ok := intParam(c, "uid")
	if !ok {
		return
	}
	page, ok := pageQuery(c, true, "last_follow_id")
	if !ok {
		return
	}
	users, err := h.services.Follows.Following(c.Request.Context(), uid, page)
	if err != nil {
		h.writeServiceError(c, "following_list_failed", err, "uid", uid)
		return
	}
	c.JSON(http.StatusOK, nonNil(users))
}

func uidPid(c *gin.Context) (int, int, bool) {
	uid, ok := intParam(c, "uid")
	if !ok {
		return 0, 0, false
	}
	pid, ok := intParam(c, "pid")
	if !ok {
		return 0, 0, false
	}
	return uid, pid, true
}

func followPair(c *gin.Context) (int, int, bool) {
	uid, ok := intParam(c, "uid")
	if !ok {
		return 0, 0, false
	}
	followed, ok := intParam(c, "followed_uid")
	if !ok {
		return 0, 0, false
	}
	return uid, followed, true
}
