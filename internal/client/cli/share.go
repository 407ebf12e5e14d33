package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/taskmaster-app/taskmaster-cli/internal/client/models"
	"github.com/taskmaster-app/taskmaster-cli/internal/common"
)

// searchWait bounds how long the share flow waits for a debounced search
// delivery before re-prompting.
const searchWait = 5 * time.Second

// ShareTask runs the interactive sharing flow for a task on the current
// page: search for a user (debounced), pick one from the results, send the
// share. Entering an empty search cancels the flow. Sharing with a user who
// already has the task is refused locally without a request.
func (a *App) ShareTask(ctx context.Context, arg string) error {
	if !a.requireLogin() {
		return nil
	}
	task, ok := a.taskFromArg(arg, "share")
	if !ok {
		return nil
	}

	fmt.Fprintf(a.out, "Sharing %q\n", task.Title)

	for {
		query, err := getSimpleText(a.reader, "Search user (empty to cancel)", a.out)
		if err != nil {
			return err
		}
		if query == "" {
			a.searcher.Cancel()
			fmt.Fprintln(a.out, "Cancelled.")
			return nil
		}

		users := a.searchUsers(ctx, query)
		if len(users) == 0 {
			fmt.Fprintln(a.out, "No users found.")
			continue
		}
		for _, u := range users {
			fmt.Fprintf(a.out, "  %d: %s (%s)\n", u.ID, u.Username, u.Email)
		}

		answer, err := getSimpleText(a.reader, "User id to share with (empty to search again)", a.out)
		if err != nil {
			return err
		}
		if answer == "" {
			continue
		}
		targetID, err := strconv.Atoi(answer)
		if err != nil {
			fmt.Fprintln(a.out, "Not a user id.")
			continue
		}

		if err := a.workspace.ShareTask(ctx, task, targetID); err != nil {
			if errors.Is(err, common.ErrAlreadyShared) {
				fmt.Fprintln(a.out, "Task is already shared with this user.")
				return nil
			}
			a.reportWriteError(ctx, "Sharing the task", err)
			return nil
		}

		fmt.Fprintln(a.out, "Task shared.")
		a.renderTasks()
		return nil
	}
}

// searchUsers triggers a debounced search and waits for its delivery. The
// result excludes the authenticated user; a read failure or timeout just
// yields an empty slice.
func (a *App) searchUsers(ctx context.Context, query string) []models.User {
	a.searcher.Trigger(ctx, query)

	select {
	case res := <-a.searchCh:
		if res.query != query {
			return nil
		}
		return res.users
	case <-time.After(searchWait):
		return nil
	case <-ctx.Done():
		return nil
	}
}
