package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

const chatHelp = `Commands:
  /quiz <subject>   start a quiz
  /answer <letter>  answer the current question
  /next             move to the next question
  /length <n>       set the reply length in sentences
  /quit             leave`

// ChatCmd creates the interactive chat command.
func ChatCmd() *cobra.Command {
	var (
		user, schoolID, grade string
		length                int
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long:  "Opens a session on the server and relays each line you type.\n\n" + chatHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			user, schoolID, grade, err = profileFor(user, schoolID, grade)
			if err != nil {
				return err
			}
			if user == "" {
				return fmt.Errorf("--user not set (run 'classmate init --user <name>')")
			}
			req := sessionRequest{User: user, SchoolID: schoolID, Grade: grade, ResponseLength: length}
			return runChat(cmd.Context(), api, os.Stdin, cmd.OutOrStdout(), req)
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Learner name")
	cmd.Flags().StringVar(&schoolID, "school", "", "School ID")
	cmd.Flags().StringVar(&grade, "grade", "", "Grade")
	cmd.Flags().IntVar(&length, "length", 0, "Reply length in sentences (default: server setting)")
	return cmd
}

func runChat(ctx context.Context, api *APIClient, in io.Reader, out io.Writer, req sessionRequest) error {
	var sess sessionInfo
	if err := api.PostInto(ctx, "/sessions", req, &sess); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer func() { _, _ = api.Delete(context.WithoutCancel(ctx), "/sessions/"+sess.ID) }()

	base := "/sessions/" + sess.ID
	fmt.Fprintf(out, "Hi %s! Ask me anything about school. Type /help for commands.\n", req.User)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)
		var err error
		switch cmd {
		case "/quit", "/exit":
			fmt.Fprintln(out, "Bye!")
			return nil
		case "/help":
			fmt.Fprintln(out, chatHelp)
		case "/quiz":
			var q quizQuestion
			if err = api.PostInto(ctx, base+"/quiz", map[string]any{"subject": arg}, &q); err == nil {
				printQuestion(out, &q)
			}
		case "/answer":
			var a quizAnswer
			if err = api.PostInto(ctx, base+"/quiz/answer", map[string]string{"letter": arg}, &a); err == nil {
				printAnswer(out, &a)
			}
		case "/next":
			var p quizProgress
			if err = api.PostInto(ctx, base+"/quiz/next", struct{}{}, &p); err == nil {
				if p.Complete {
					fmt.Fprintln(out, p.Summary)
				} else if p.Question != nil {
					printQuestion(out, p.Question)
				}
			}
		case "/length":
			n, convErr := strconv.Atoi(arg)
			if convErr != nil {
				fmt.Fprintln(out, "usage: /length <sentences>")
				continue
			}
			var info sessionInfo
			if err = api.PostInto(ctx, base+"/settings", map[string]int{"response_length": n}, &info); err == nil {
				fmt.Fprintf(out, "Replies will be about %d sentences.\n", info.ResponseLength)
			}
		default:
			var reply chatReply
			if err = api.PostInto(ctx, base+"/messages", map[string]string{"text": line}, &reply); err == nil {
				fmt.Fprintln(out, reply.Text)
			}
		}
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

func printQuestion(out io.Writer, q *quizQuestion) {
	fmt.Fprintf(out, "Question %d of %d: %s\n", q.Number, q.Total, q.Question)
	for i, opt := range q.Options {
		fmt.Fprintf(out, "  %c) %s\n", 'A'+i, opt)
	}
	if q.Tip != "" {
		fmt.Fprintf(out, "Tip: %s\n", q.Tip)
	}
}

func printAnswer(out io.Writer, a *quizAnswer) {
	if a.Correct {
		fmt.Fprintf(out, "Correct! %s\n", a.Feedback)
	} else {
		fmt.Fprintf(out, "Not quite. The answer is %s) %s. %s\n", a.CorrectAnswer, a.CorrectAnswerText, a.Feedback)
	}
	if a.Reflection != "" {
		fmt.Fprintln(out, a.Reflection)
	}
	fmt.Fprintf(out, "Score: %d/%d\n", a.Score, a.Answered)
}
