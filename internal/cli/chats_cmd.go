// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chats_cmd.go - chat list and maintenance commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/mangaba/internal/model"
	"github.com/jeranaias/mangaba/internal/util"
)

// HandleChats dispatches the chats subcommands.
func HandleChats(app *App, args Args) error {
	switch args.Subcommand {
	case "list", "":
		return listChats(app, args)

	case "delete", "rm":
		if len(args.Raw) == 0 {
			return fmt.Errorf("usage: mangaba chats delete <id>")
		}
		if !app.Store.DeleteChat(args.Raw[0]) {
			fmt.Println(WarningStyle.Render("no chat with id " + args.Raw[0]))
			return nil
		}
		fmt.Println(SuccessStyle.Render("deleted chat ") + DimStyle.Render(args.Raw[0]))
		return nil

	case "select":
		if len(args.Raw) == 0 {
			return fmt.Errorf("usage: mangaba chats select <id>")
		}
		app.Store.SetCurrentChat(args.Raw[0])
		fmt.Println(SuccessStyle.Render("selected chat ") + DimStyle.Render(args.Raw[0]))
		return nil

	case "search":
		if len(args.Raw) == 0 {
			return fmt.Errorf("usage: mangaba chats search <query>")
		}
		results := app.Store.SearchChats(strings.Join(args.Raw, " "))
		printChatRows(app, results)
		if len(results) == 0 {
			fmt.Println(DimStyle.Render("no matches"))
		}
		return nil

	case "clear":
		if !confirmDestructive(args, "Delete all chats?") {
			fmt.Println(DimStyle.Render("aborted"))
			return nil
		}
		app.Store.ClearAllChats()
		fmt.Println(SuccessStyle.Render("all chats cleared"))
		return nil

	default:
		return fmt.Errorf("unknown chats subcommand %q", args.Subcommand)
	}
}

func listChats(app *App, args Args) error {
	chats := app.Store.Chats()
	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(chats)
	}
	fmt.Println(TitleStyle.Render("Chats"))
	printChatRows(app, chats)
	if len(chats) == 0 {
		fmt.Println(DimStyle.Render("no chats yet - run 'mangaba chat' to start one"))
	}
	return nil
}

func printChatRows(app *App, chats []*model.Chat) {
	_, _, currentChat := app.Store.Selection()
	for _, chat := range chats {
		marker := "  "
		if chat.ID == currentChat {
			marker = HighlightStyle.Render("* ")
		}
		title := chat.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%s%s %s %s\n",
			marker,
			ValueStyle.Render(util.PadRight(util.TruncateWidth(title, 40), 40)),
			DimStyle.Render(util.PadRight(chat.ID, 26)),
			DimStyle.Render(fmt.Sprintf("%d msgs  %s", len(chat.Messages), chat.UpdatedAt.Format("2006-01-02 15:04"))),
		)
	}
}

// confirmDestructive prompts before irreversible operations unless --quiet
// was given or stdin is not a terminal.
func confirmDestructive(args Args, prompt string) bool {
	if args.Quiet || !CanPrompt() {
		return true
	}
	fmt.Print(WarningStyle.Render(prompt) + " [y/N] ")
	var answer string
	fmt.Scanln(&answer)
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
