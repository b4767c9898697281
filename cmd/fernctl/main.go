package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/fx"

	"github.com/fernlabs/fern/internal/app"
	"github.com/fernlabs/fern/internal/profile"
	"github.com/fernlabs/fern/internal/state"
)

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	flag.Parse()

	profileName := profile.Resolve(*profileFlag)
	if err := profile.ValidateName(profileName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	var (
		ops   *state.Ops
		store *state.Store
	)
	core := fx.New(
		app.Module(app.Params{ProfileName: profileName}),
		fx.Populate(&ops, &store),
		fx.NopLogger,
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelStart()
	if err := core.Start(startCtx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		stopCtx, cancelStop := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelStop()
		_ = core.Stop(stopCtx)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch args[0] {
	case "status":
		cmdStatus(store, profileName, *jsonFlag)
	case "login":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: fernctl login <email>")
			exit(core, 1)
		}
		cmdLogin(ctx, ops, args[1])
	case "logout":
		// The stored session is cleared even when the server call
		// fails, so a dead server cannot trap the user signed in.
		ops.Logout(ctx)
		fmt.Println("Logged out.")
	case "verify":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: fernctl verify <token>")
			exit(core, 1)
		}
		cmdVerify(ctx, ops, args[1])
	case "cycles":
		run(ops.LoadCycles(ctx, 1, 100))
		output(store.Cycles().Items, *jsonFlag, func() {
			for _, c := range store.Cycles().Items {
				end := c.EndDate
				if end == "" {
					end = "ongoing"
				}
				fmt.Printf("%s  %s → %s  %s\n", c.ID, c.StartDate, end, strings.Join(c.Symptoms, ","))
			}
		})
	case "meds":
		run(ops.LoadMedications(ctx, 1, 100))
		output(store.Medications().Items, *jsonFlag, func() {
			for _, m := range store.Medications().Items {
				fmt.Printf("%s  %s %s %s\n", m.ID, m.Name, m.Dosage, m.Frequency)
			}
		})
	case "chats":
		run(ops.LoadChatSessions(ctx, 1, 100))
		output(store.ChatSessions().Items, *jsonFlag, func() {
			for _, s := range store.ChatSessions().Items {
				fmt.Printf("%s  %s\n", s.ID, s.Title)
			}
		})
	case "partner":
		run(ops.LoadPartner(ctx))
		link := store.PartnerLink()
		if *jsonFlag {
			outputJSON(link)
		} else if link != nil {
			fmt.Printf("Status: %s\n", link.Status)
		}
	case "communities":
		run(ops.LoadCommunities(ctx, 1, 100))
		output(store.Communities().Items, *jsonFlag, func() {
			for _, c := range store.Communities().Items {
				joined := ""
				if c.Joined {
					joined = " (joined)"
				}
				fmt.Printf("%s  %s  %d members%s\n", c.ID, c.Name, c.MemberCount, joined)
			}
		})
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		exit(core, 1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: fernctl [--profile <name>] [--json] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  status           Show session status")
	fmt.Fprintln(os.Stderr, "  login <email>    Sign in (password read from stdin)")
	fmt.Fprintln(os.Stderr, "  logout           Sign out and clear the stored session")
	fmt.Fprintln(os.Stderr, "  verify <token>   Verify the account email")
	fmt.Fprintln(os.Stderr, "  cycles           List tracked cycles")
	fmt.Fprintln(os.Stderr, "  meds             List medication schedules")
	fmt.Fprintln(os.Stderr, "  chats            List companion chat sessions")
	fmt.Fprintln(os.Stderr, "  partner          Show partner link status")
	fmt.Fprintln(os.Stderr, "  communities      List communities")
}

// exit stops the core before terminating so the lock and store are
// released.
func exit(core *fx.App, code int) {
	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = core.Stop(stopCtx)
	os.Exit(code)
}

// run fails the command when the operation failed.
func run[T any](res state.Result[T]) {
	if !res.OK {
		fmt.Fprintf(os.Stderr, "error: %s\n", res.Err)
		os.Exit(1)
	}
}

func cmdStatus(store *state.Store, profileName string, jsonOut bool) {
	sess := store.Session()
	if jsonOut {
		outputJSON(map[string]any{
			"profile":       profileName,
			"authenticated": sess.IsAuthenticated,
			"user":          sess.User,
		})
		return
	}
	fmt.Printf("Profile: %s\n", profileName)
	if !sess.IsAuthenticated {
		fmt.Println("Status:  not signed in")
		return
	}
	fmt.Println("Status:  signed in")
	if sess.User != nil {
		fmt.Printf("User:    %s <%s>\n", sess.User.Name, sess.User.Email)
	}
}

func cmdLogin(ctx context.Context, ops *state.Ops, email string) {
	password := os.Getenv("FERN_PASSWORD")
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		password = strings.TrimSpace(line)
	}

	run(ops.Login(ctx, email, password))
	fmt.Println("Signed in.")
}

func cmdVerify(ctx context.Context, ops *state.Ops, token string) {
	res := ops.VerifyEmail(ctx, token)
	if !res.OK {
		fmt.Fprintf(os.Stderr, "error: %s\n", res.Err)
		os.Exit(1)
	}
	if res.Data != nil && res.Data.AlreadyVerified {
		fmt.Println("Email was already verified.")
		return
	}
	fmt.Println("Email verified.")
}

func output[T any](items []T, jsonOut bool, plain func()) {
	if jsonOut {
		outputJSON(items)
		return
	}
	plain()
}

func outputJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
