package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"socialfeed"
	"socialfeed/internal/client"
	"socialfeed/internal/client/pager"
	"socialfeed/internal/config"
	"socialfeed/internal/logger"

	"github.com/spf13/pflag"
)

type app struct {
	api *client.Client
	cfg *config.Client
	log *logger.Logger
	out io.Writer
}

type command struct {
	needsSession bool
	run          func(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error
}

var commands = map[string]command{
	"login":          {false, cmdLogin},
	"register":       {false, cmdRegister},
	"logout":         {false, cmdLogout},
	"whoami":         {true, cmdWhoami},
	"users":          {true, cmdUsers},
	"posts":          {true, cmdPosts},
	"post":           {true, cmdPost},
	"user-posts":     {true, cmdUserPosts},
	"feed":           {true, cmdFeed},
	"watch":          {true, cmdWatch},
	"new-post":       {true, cmdNewPost},
	"delete-post":    {true, cmdDeletePost},
	"like":           {true, cmdLike},
	"unlike":         {true, cmdUnlike},
	"liked":          {true, cmdLiked},
	"comment":        {true, cmdComment},
	"comments":       {true, cmdComments},
	"follow":         {true, cmdFollow},
	"unfollow":       {true, cmdUnfollow},
	"following":      {true, cmdFollowing},
	"profile":        {true, cmdProfile},
	"avatar":         {true, cmdAvatar},
	"banner":         {true, cmdBanner},
	"delete-account": {true, cmdDeleteAccount},
	"sort":           {false, cmdSort},
}

func (a *app) uid() int {
	return a.api.Session().Snapshot().UID
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// intArg parses the i-th positional argument as an id.
func intArg(args []string, i int, name string) (int, error) {
	if len(args) <= i {
		return 0, fmt.Errorf("missing %s", name)
	}
	v, err := strconv.Atoi(args[i])
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, args[i])
	}
	return v, nil
}

// optional returns a pointer to the flag value when it was set.
func optional[T any](fs *pflag.FlagSet, name string, v T) *T {
	if !fs.Changed(name) {
		return nil
	}
	return &v
}

func cmdLogin(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error {
	user := fs.StringP("username", "u", "", "username")
	pass := fs.StringP("password", "p", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.api.Login(ctx, *user, *pass); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "logged in as %s\n", a.api.Session().Snapshot().Username)
	return nil
}

func cmdRegister(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error {
	user := fs.StringP("username", "u", "", "username")
	pass := fs.StringP("password", "p", "", "password")
	email := fs.StringP("email", "e", "", "email address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.api.Register(ctx, *user, *pass, *email); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "registered %s (uid %d)\n", *user, a.uid())
	return nil
}

func cmdLogout(ctx context.Context, a *app, _ *pflag.FlagSet, _ []string) error {
	a.api.Logout(ctx)
	fmt.Fprintln(a.out, "logged out")
	return nil
}

func cmdWhoami(_ context.Context, a *app, _ *pflag.FlagSet, _ []string) error {
	st := a.api.Session().Snapshot()
	st.Token = ""
	return a.print(st)
}

func cmdUsers(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error {
	q := fs.StringP("query", "q", "", "username contains")
	last := fs.Int("last-id", 0, "continue after this user id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	users, err := a.api.FetchUsers(ctx, a.cfg.PageSize, optional(fs, "last-id", *last), optional(fs, "query", *q))
	if err != nil {
		return err
	}
	return a.print(users)
}

func cmdPosts(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error {
	q := fs.StringP("query", "q", "", "title or content contains")
	likedBy := fs.Int("liked-by", 0, "only posts liked by this user id")
	all := fs.Bool("all", false, "walk every page")
	if err := fs.Parse(args); err != nil {
		return err
	}
	query, liked := optional(fs, "query", *q), optional(fs, "liked-by", *likedBy)

	p := pager.New(a.cfg.PageSize, func(ctx context.Context, lastID *int) ([]socialfeed.Post, error) {
		return a.api.FetchPosts(ctx, a.cfg.PageSize, lastID, query, liked)
	}, postID)
	return printPages(ctx, a, p, *all)
}

func cmdPost(ctx context.Context, a *app, _ *pflag.FlagSet, args []string) error {
	pid, err := intArg(args, 0, "post id")
	if err != nil {
		return err
	}
	post, err := a.api.FetchPost(ctx, pid)
	if err != nil {
		return err
	}
	return a.print(post)
}

func cmdUserPosts(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error {
	hasImage := fs.Bool("has-image", false, "only posts with (or without) an image")
	all := fs.Bool("all", false, "walk every page")
	if err := fs.Parse(args); err != nil {
		return err
	}
	uid := a.uid()
	if fs.NArg() > 0 {
		var err error
		if uid, err = intArg(fs.Args(), 0, "user id"); err != nil {
			return err
		}
	}
	sort, err := a.api.SortPreference(ctx)
	if err != nil {
		return err
	}
	img, desc := optional(fs, "has-image", *hasImage), sort != "asc"

	p := pager.New(a.cfg.PageSize, func(ctx context.Context, lastID *int) ([]socialfeed.Post, error) {
		return a.api.FetchUserPosts(ctx, uid, a.cfg.PageSize, lastID, img, desc)
	}, postID)
	return printPages(ctx, a, p, *all)
}

func cmdFeed(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error {
	all := fs.Bool("all", false, "walk every page")
	if err := fs.Parse(args); err != nil {
		return err
	}
	uid := a.uid()
	p := pager.New(a.cfg.PageSize, func(ctx context.Context, lastID *int) ([]socialfeed.Post, error) {
		return a.api.FetchUserFeedPosts(ctx, uid, a.cfg.PageSize, lastID)
	}, postID)
	return printPages(ctx, a, p, *all)
}

func cmdWatch(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error {
	interval := fs.Duration("interval", 5*time.Second, "server poll interval")
	if err := fs.Parse(args); err != nil {
		return err
	}
	updates, err := a.api.WatchFeed(ctx, *interval)
	if err != nil {
		return err
	}
	for u := range updates {
		if u.Err != nil {
			return u.Err
		}
		for _, p := range u.Posts {
			if err := a.print(p); err != nil {
				return err
			}
		}
	}
	return nil
}

func cmdNewPost(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error {
	title := fs.StringP("title", "t", "", "post title")
	content := fs.StringP("content", "c", "", "post body")
	image := fs.StringP("image", "i", "", "path to a png or jpeg")
	if err := fs.Parse(args); err != nil {
		return err
	}
	np := client.NewPost{Title: *title, Content: *content}
	if *image != "" {
		img, err := readImage(*image)
		if err != nil {
			return err
		}
		np.Image = &img
	}
	id, err := a.api.NewPost(ctx, a.uid(), np)
	if err != nil {
		return err
	}
	return a.print(map[string]int{"id": id})
}

func cmdDeletePost(ctx context.Context, a *app, _ *pflag.FlagSet, args []string) error {
	pid, err := intArg(args, 0, "post id")
	if err != nil {
		return err
	}
	return a.api.DeletePost(ctx, a.uid(), pid)
}

func cmdLike(ctx context.Context, a *app, _ *pflag.FlagSet, args []string) error {
	pid, err := intArg(args, 0, "post id")
	if err != nil {
		return err
	}
	return a.api.LikePost(ctx, a.uid(), pid)
}

func cmdUnlike(ctx context.Context, a *app, _ *pflag.FlagSet, args []string) error {
	pid, err := intArg(args, 0, "post id")
	if err != nil {
		return err
	}
	return a.api.UnlikePost(ctx, a.uid(), pid)
}

func cmdLiked(ctx context.Context, a *app, _ *pflag.FlagSet, args []string) error {
	pid, err := intArg(args, 0, "post id")
	if err != nil {
		return err
	}
	st, err := a.api.CheckLike(ctx, a.uid(), pid)
	if err != nil {
		return err
	}
	return a.print(st)
}

func cmdComment(ctx context.Context, a *app, _ *pflag.FlagSet, args []string) error {
	pid, err := intArg(args, 0, "post id")
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return errors.New("missing comment text")
	}
	cm, err := a.api.AddComment(ctx, a.uid(), pid, args[1])
	if err != nil {
		return err
	}
	return a.print(cm)
}

func cmdComments(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error {
	all := fs.Bool("all", false, "walk every page")
	if err := fs.Parse(args); err != nil {
		return err
	}
	pid, err := intArg(fs.Args(), 0, "post id")
	if err != nil {
		return err
	}
	p := pager.New(a.cfg.PageSize, func(ctx context.Context, lastID *int) ([]socialfeed.Comment, error) {
		return a.api.FetchComments(ctx, pid, a.cfg.PageSize, lastID)
	}, func(c socialfeed.Comment) int { return c.ID })
	return printPages(ctx, a, p, *all)
}

func cmdFollow(ctx context.Context, a *app, _ *pflag.FlagSet, args []string) error {
	uid, err := intArg(args, 0, "user id")
	if err != nil {
		return err
	}
	return a.api.FollowUser(ctx, a.uid(), uid)
}

func cmdUnfollow(ctx context.Context, a *app, _ *pflag.FlagSet, args []string) error {
	uid, err := intArg(args, 0, "user id")
	if err != nil {
		return err
	}
	return a.api.UnfollowUser(ctx, a.uid(), uid)
}

func cmdFollowing(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error {
	last := fs.Int("last-follow-id", 0, "continue after this user id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	uid := a.uid()
	if fs.NArg() > 0 {
		var err error
		if uid, err = intArg(fs.Args(), 0, "user id"); err != nil {
			return err
		}
	}
	users, err := a.api.GetFollowing(ctx, uid, optional(fs, "last-follow-id", *last))
	if err != nil {
		return err
	}
	return a.print(users)
}

func cmdProfile(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error {
	var upd socialfeed.UserUpdate
	fs.StringVar(&upd.Username, "username", "", "new username")
	fs.StringVar(&upd.AboutMe, "about", "", "new about-me text")
	fs.StringVar(&upd.Email, "email", "", "new email address")
	fs.StringVar(&upd.OldPassword, "old-password", "", "current password")
	fs.StringVar(&upd.NewPassword, "new-password", "", "new password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	res, err := a.api.UpdateUserInfo(ctx, a.uid(), upd)
	if err != nil {
		return err
	}
	return a.print(res)
}

func cmdAvatar(ctx context.Context, a *app, _ *pflag.FlagSet, args []string) error {
	return a.uploadPicture(ctx, args, a.api.UpdateProfilePicture)
}

func cmdBanner(ctx context.Context, a *app, _ *pflag.FlagSet, args []string) error {
	return a.uploadPicture(ctx, args, a.api.UpdateBannerPicture)
}

func (a *app) uploadPicture(ctx context.Context, args []string, upload func(context.Context, int, client.Image) (string, error)) error {
	if len(args) == 0 {
		return errors.New("missing image path")
	}
	img, err := readImage(args[0])
	if err != nil {
		return err
	}
	name, err := upload(ctx, a.uid(), img)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, name)
	return nil
}

func cmdDeleteAccount(ctx context.Context, a *app, fs *pflag.FlagSet, args []string) error {
	yes := fs.Bool("yes", false, "confirm deletion")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*yes {
		return errors.New("refusing to delete the account without --yes")
	}
	return a.api.DeleteAccount(ctx, a.uid())
}

func cmdSort(ctx context.Context, a *app, _ *pflag.FlagSet, args []string) error {
	if len(args) == 0 {
		s, err := a.api.SortPreference(ctx)
		if err != nil {
			return err
		}
		if s == "" {
			s = "desc"
		}
		fmt.Fprintln(a.out, s)
		return nil
	}
	switch args[0] {
	case "asc", "desc":
		return a.api.SetSortPreference(ctx, args[0])
	default:
		return fmt.Errorf("sort must be asc or desc, got %q", args[0])
	}
}

func postID(p socialfeed.Post) int { return p.ID }

// printPages prints the first page, or every page when all is set.
func printPages[T any](ctx context.Context, a *app, p *pager.Paginator[T], all bool) error {
	for {
		items, err := p.Next(ctx)
		if err != nil {
			return err
		}
		for _, it := range items {
			if err := a.print(it); err != nil {
				return err
			}
		}
		if !all || p.Done() {
			return nil
		}
	}
}

func readImage(path string) (client.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return client.Image{}, fmt.Errorf("read image: %w", err)
	}
	return client.Image{Filename: filepath.Base(path), Data: data}, nil
}
