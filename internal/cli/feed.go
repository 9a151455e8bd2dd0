package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"framez/internal/feed"
	"framez/internal/models"

	"github.com/spf13/cobra"
)

var feedWatch bool

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Show the aggregated feed, newest first",
	Args:  cobra.NoArgs,
	Run:   runFeed,
}

var profileCmd = &cobra.Command{
	Use:   "profile [user-id]",
	Short: "Show one user's posts",
	Args:  cobra.MaximumNArgs(1),
	Run:   runProfile,
}

func init() {
	feedCmd.Flags().BoolVarP(&feedWatch, "watch", "w", false, "keep the feed open and reprint on changes")
	RootCmd.AddCommand(feedCmd, profileCmd)
}

func printPosts(posts []models.Post) {
	if len(posts) == 0 {
		fmt.Println("The feed is empty. Be the first to post.")
		return
	}
	for _, p := range posts {
		liked := " "
		if p.UserLiked {
			liked = "*"
		}
		fmt.Printf("#%-4d %s (%s)\n", p.ID, p.UserName, p.CreatedAt.Format("Jan 2 15:04"))
		if p.Content != "" {
			fmt.Printf("      %s\n", p.Content)
		}
		if p.ImageURL != "" {
			fmt.Printf("      [image] %s\n", p.ImageURL)
		}
		fmt.Printf("      %s %d likes, %d comments\n\n", liked, p.LikesCount, p.CommentsCount)
	}
}

func runView(view *feed.View) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := view.Start(ctx); err != nil {
		exitf("Could not load the feed: %v", err)
	}
	defer view.Close()

	printPosts(view.Posts())

	if !feedWatch {
		return
	}

	release := view.Subscribe(func(posts []models.Post) {
		fmt.Println("--- feed updated ---")
		printPosts(posts)
	})
	defer release()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
}

func runFeed(cmd *cobra.Command, args []string) {
	a, err := openApp()
	if err != nil {
		exitf("Startup failed: %v", err)
	}
	defer a.Close()

	var viewerID uint
	if sess := a.restoreSession(context.Background()); sess != nil {
		viewerID = sess.User.ID
	}
	runView(feed.NewView(a.client, viewerID))
}

func runProfile(cmd *cobra.Command, args []string) {
	a, err := openApp()
	if err != nil {
		exitf("Startup failed: %v", err)
	}
	defer a.Close()

	var viewerID uint
	sess := a.restoreSession(context.Background())
	if sess != nil {
		viewerID = sess.User.ID
	}

	userID := viewerID
	if len(args) == 1 {
		parsed, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			exitf("Invalid user id: %s", args[0])
		}
		userID = uint(parsed)
	}
	if userID == 0 {
		exitf("Sign in or pass a user id.")
	}

	user, err := a.client.Users.GetByID(context.Background(), userID)
	if err != nil {
		exitf("No such user: %d", userID)
	}
	fmt.Printf("%s <%s>\n\n", user.DisplayName, user.Email)

	runView(feed.NewProfileView(a.client, viewerID, userID))
}
