package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"framez/internal/composer"
	"framez/internal/postcard"

	"github.com/spf13/cobra"
)

var postImagePath string

var postCmd = &cobra.Command{
	Use:   "post <text...>",
	Short: "Publish a post",
	Args:  cobra.ArbitraryArgs,
	Run:   runPost,
}

var likeCmd = &cobra.Command{
	Use:   "like <post-id>",
	Short: "Toggle your like on a post",
	Args:  cobra.ExactArgs(1),
	Run:   runLike,
}

var commentsCmd = &cobra.Command{
	Use:   "comments <post-id>",
	Short: "Show a post's comment thread, newest first",
	Args:  cobra.ExactArgs(1),
	Run:   runComments,
}

var commentCmd = &cobra.Command{
	Use:   "comment <post-id> <text...>",
	Short: "Comment on a post",
	Args:  cobra.MinimumNArgs(2),
	Run:   runComment,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <post-id>",
	Short: "Delete one of your posts",
	Args:  cobra.ExactArgs(1),
	Run:   runDelete,
}

func init() {
	postCmd.Flags().StringVarP(&postImagePath, "image", "i", "", "attach an image file")
	RootCmd.AddCommand(postCmd, likeCmd, commentsCmd, commentCmd, deleteCmd)
}

func parsePostID(arg string) uint {
	parsed, err := strconv.ParseUint(arg, 10, 32)
	if err != nil || parsed == 0 {
		exitf("Invalid post id: %s", arg)
	}
	return uint(parsed)
}

// findCard loads a post by ID through the aggregated feed so the card
// starts from the viewer's current like state.
func findCard(ctx context.Context, a *app, postID uint) *postcard.Card {
	sess := a.mustSession(ctx)

	posts, err := a.client.Posts.List(ctx)
	if err != nil {
		exitf("Could not load posts: %v", err)
	}
	for _, p := range posts {
		if p.ID == postID {
			likes, err := a.client.Likes.ListByPosts(ctx, []uint{p.ID})
			if err != nil {
				exitf("Could not load likes: %v", err)
			}
			p.LikesCount = len(likes)
			for _, l := range likes {
				if l.UserID == sess.User.ID {
					p.UserLiked = true
				}
			}
			return postcard.NewCard(a.client, sess.User, p)
		}
	}
	exitf("No such post: %d", postID)
	return nil
}

func runPost(cmd *cobra.Command, args []string) {
	a, err := openApp()
	if err != nil {
		exitf("Startup failed: %v", err)
	}
	defer a.Close()

	ctx := context.Background()
	sess := a.mustSession(ctx)

	draft := composer.NewDraft(a.client, sess.User)
	draft.SetContent(strings.Join(args, " "))

	if postImagePath != "" {
		data, err := os.ReadFile(postImagePath)
		if err != nil {
			exitf("Could not read image: %v", err)
		}
		contentType := mime.TypeByExtension(filepath.Ext(postImagePath))
		draft.AttachImage(data, contentType)
	}

	post, err := draft.Submit(ctx)
	if err != nil {
		exitf("Post failed: %v", err)
	}
	fmt.Printf("Posted #%d.\n", post.ID)
}

func runLike(cmd *cobra.Command, args []string) {
	a, err := openApp()
	if err != nil {
		exitf("Startup failed: %v", err)
	}
	defer a.Close()

	ctx := context.Background()
	card := findCard(ctx, a, parsePostID(args[0]))
	if err := card.ToggleLike(ctx); err != nil {
		exitf("Like failed: %v", err)
	}

	post := card.Post()
	state := "Unliked"
	if post.UserLiked {
		state = "Liked"
	}
	fmt.Printf("%s post #%d (%d likes).\n", state, post.ID, post.LikesCount)
}

func runComments(cmd *cobra.Command, args []string) {
	a, err := openApp()
	if err != nil {
		exitf("Startup failed: %v", err)
	}
	defer a.Close()

	ctx := context.Background()
	postID := parsePostID(args[0])

	thread, err := a.client.Comments.ListByPost(ctx, postID)
	if err != nil {
		exitf("Could not load comments: %v", err)
	}
	if len(thread) == 0 {
		fmt.Println("No comments yet.")
		return
	}
	for _, c := range thread {
		fmt.Printf("%s (%s)\n  %s\n", c.UserName, c.CreatedAt.Format("Jan 2 15:04"), c.Content)
	}
}

func runComment(cmd *cobra.Command, args []string) {
	a, err := openApp()
	if err != nil {
		exitf("Startup failed: %v", err)
	}
	defer a.Close()

	ctx := context.Background()
	card := findCard(ctx, a, parsePostID(args[0]))

	card.SetCommentDraft(strings.Join(args[1:], " "))
	if !card.CanSubmitComment() {
		exitf("Comment text is empty.")
	}
	if err := card.AddComment(ctx); err != nil {
		exitf("Comment failed: %v", err)
	}
	fmt.Println("Comment added.")
}

func runDelete(cmd *cobra.Command, args []string) {
	a, err := openApp()
	if err != nil {
		exitf("Startup failed: %v", err)
	}
	defer a.Close()

	ctx := context.Background()
	sess := a.mustSession(ctx)
	postID := parsePostID(args[0])

	posts, err := a.client.Posts.ListByUser(ctx, sess.User.ID)
	if err != nil {
		exitf("Could not load your posts: %v", err)
	}
	owned := false
	for _, p := range posts {
		if p.ID == postID {
			owned = true
			break
		}
	}
	if !owned {
		exitf("Post %d is not yours (or does not exist).", postID)
	}

	if err := a.client.Posts.Delete(ctx, postID); err != nil {
		exitf("Delete failed: %v", err)
	}
	fmt.Printf("Deleted post #%d.\n", postID)
}
