// Package terminal is the interactive command-line front end.
//
// A Session asks for one username, runs a single combined lookup and prints
// a fixed plain-text summary:
//
//	GitHub User: octocat
//	Name: The Octocat
//	...
//	Recent Activities:
//	- PushEvent at octocat/Hello-World on 6/20/2024, 10:00:00 AM
//
// Failures go to the error stream; the summary stream then stays empty.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sakif/profile-viewer/internal/apperror"
	"github.com/sakif/profile-viewer/internal/model"
)

// Prompt is written to the output stream before reading a username.
const Prompt = "Enter GitHub username: "

// timestampLayout renders like "6/20/2024, 10:00:00 AM".
const timestampLayout = "1/2/2006, 3:04:05 PM"

// Viewer builds the combined profile + recent activity record.
// *service.ProfileService implements it.
type Viewer interface {
	ViewModel(ctx context.Context, username string) (*model.ViewModel, error)
}

type Session struct {
	viewer Viewer
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	loc    *time.Location
}

// NewSession creates a Session reading from in and writing the summary to
// out and failures to errOut. Timestamps are shown in the local time zone.
func NewSession(viewer Viewer, in io.Reader, out, errOut io.Writer) *Session {
	return &Session{
		viewer: viewer,
		in:     in,
		out:    out,
		errOut: errOut,
		loc:    time.Local,
	}
}

// Run performs one interaction. When username is empty the user is
// prompted for one. The returned error has already been reported on the
// error stream; callers only need it for the exit status.
func (s *Session) Run(ctx context.Context, username string) error {
	if username == "" {
		line, err := s.ask()
		if err != nil {
			fmt.Fprintln(s.errOut, "Could not read username:", err)
			return err
		}
		username = line
	}

	vm, err := s.viewer.ViewModel(ctx, username)
	if err != nil {
		fmt.Fprintln(s.errOut, apperror.Message(err))
		return err
	}

	s.print(vm)
	return nil
}

// ask prompts and reads one line. A bare EOF counts as an empty answer.
func (s *Session) ask() (string, error) {
	fmt.Fprint(s.out, Prompt)

	line, err := bufio.NewReader(s.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *Session) print(vm *model.ViewModel) {
	p := vm.Profile
	fmt.Fprintf(s.out, "\nGitHub User: %s\n", p.Login)
	fmt.Fprintf(s.out, "Name: %s\n", p.Name)
	fmt.Fprintf(s.out, "Bio: %s\n", p.Bio)
	fmt.Fprintf(s.out, "Public Repos: %d\n", p.PublicRepos)
	fmt.Fprintf(s.out, "Followers: %d\n", p.Followers)
	fmt.Fprintf(s.out, "Following: %d\n", p.Following)

	fmt.Fprintln(s.out, "\nRecent Activities:")
	for _, e := range vm.RecentActivity {
		fmt.Fprintf(s.out, "- %s at %s on %s\n", e.Type, e.Repo.Name, e.CreatedAt.In(s.loc).Format(timestampLayout))
	}
}
