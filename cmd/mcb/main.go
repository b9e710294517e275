package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	fmt "github.com/jhunt/go-ansi"
	"github.com/jhunt/go-cli"
	env "github.com/jhunt/go-envirotron"
	"github.com/jhunt/go-log"
	"github.com/jhunt/go-table"
	"github.com/thanhpk/randstr"

	"github.com/macaba/mcweb/client/v1/macaba"
	"github.com/macaba/mcweb/page"
	"github.com/macaba/mcweb/tui"
)

var Version = ""

var opts struct {
	Help    bool `cli:"-h, --help"`
	Version bool `cli:"-v, --version"`
	Yes     bool `cli:"-y, --yes"`
	Debug   bool `cli:"-D, --debug"  env:"MCB_DEBUG"`
	Trace   bool `cli:"-T, --trace"  env:"MCB_TRACE"`
	JSON    bool `cli:"--json"       env:"MCB_JSON_MODE"`

	Config string `cli:"--config"     env:"MCB_CONFIG"`
	Site   string `cli:"-s, --site"   env:"MCB_SITE"`
	URL    string `cli:"-U, --url"    env:"MCB_URL"`
	Board  string `cli:"-b, --board"  env:"MCB_BOARD"`

	SkipSSLValidation bool `cli:"-k, --skip-ssl-validate"`

	HelpCommand struct{} `cli:"help"`

	Curl struct{} `cli:"curl"`

	Boards struct{} `cli:"boards, sites"`
	Use    struct{} `cli:"use"`

	Preview struct{} `cli:"preview"`

	Post struct {
		Thread   int    `cli:"-t, --thread"`
		Password string `cli:"-p, --password" env:"MCB_PASSWORD"`
		File     string `cli:"-f, --file"`
	} `cli:"post"`

	Posts struct {
		Thread int `cli:"-t, --thread"`
		Limit  int `cli:"-l, --limit"`
	} `cli:"posts"`

	Delete struct {
		Password string `cli:"-p, --password" env:"MCB_PASSWORD"`
		OnlyFile bool   `cli:"--only-file, --file"`
	} `cli:"delete"`
}

func usage() {
	fmt.Printf("USAGE: @G{mcb} COMMAND [OPTIONS] [ARGUMENTS]\n")
	fmt.Printf("\n")
	fmt.Printf("@B{Global options:}\n")
	fmt.Printf("  -h, --help     Show this help screen.\n")
	fmt.Printf("  -v, --version  Print the version and exit.\n")
	fmt.Printf("\n")
	fmt.Printf("      --config   An alternate client configuration file to use. (@W{$MCB_CONFIG})\n")
	fmt.Printf("  -s, --site     Which configured mcweb site to talk to. (@W{$MCB_SITE})\n")
	fmt.Printf("  -U, --url      The URL of an mcweb site, overriding --site. (@W{$MCB_URL})\n")
	fmt.Printf("  -b, --board    Which board to operate on. (@W{$MCB_BOARD})\n")
	fmt.Printf("  -k, --skip-ssl-validate\n")
	fmt.Printf("                 Do not verify the site's TLS certificate.\n")
	fmt.Printf("\n")
	fmt.Printf("  -y, --yes      Answer all prompts affirmatively.\n")
	fmt.Printf("      --json     Format output as JSON. (@W{$MCB_JSON_MODE})\n")
	fmt.Printf("  -D, --debug    Enable debugging output. (@W{$MCB_DEBUG})\n")
	fmt.Printf("  -T, --trace    Trace HTTP communication with the site.  (@W{$MCB_TRACE})\n")
	fmt.Printf("\n")
	fmt.Printf("@B{Commands:}\n")
	fmt.Printf("  @C{boards}                           List configured sites.\n")
	fmt.Printf("  @C{use} ALIAS [URL [BOARD]]          Configure and/or select a site.\n")
	fmt.Printf("  @C{preview} [FILE|-]                 Render post markup, as the server would.\n")
	fmt.Printf("  @C{post} [-t N] [-p PW] [-f FILE] [MARKUP-FILE|-]\n")
	fmt.Printf("                                   Make a new post (or reply to thread N).\n")
	fmt.Printf("  @C{posts} [-t N] [-l N]              List posts on the board.\n")
	fmt.Printf("  @C{delete} [--only-file] [-p PW] NUMBER...\n")
	fmt.Printf("                                   Delete posts (or just their attachments).\n")
	fmt.Printf("  @C{curl} [METHOD] PATH [BODY|-]      Issue a raw request against the REST API.\n")
	fmt.Printf("\n")
}

func main() {
	opts.Config = fmt.Sprintf("%s/.mcb", os.Getenv("HOME"))
	env.Override(&opts)

	command, args, err := cli.Parse(&opts)
	bail(err)

	if command == "" && !opts.Help && !opts.Version {
		if len(args) > 0 {
			bail(fmt.Errorf("Unrecognized command '%s'", args[0]))
		}
		opts.Help = true
	}
	if command == "help" {
		command = ""
		opts.Help = true
	}
	if opts.Help {
		usage()
		os.Exit(0)
	}

	if opts.Version {
		if Version == "" {
			fmt.Printf("mcb (development)\n")
		} else {
			fmt.Printf("mcb v%s\n", Version)
		}
		os.Exit(0)
	}

	level := "error"
	if opts.Debug {
		level = "debug"
	}
	log.SetupLogging(log.LogConfig{Type: "console", Level: level})

	config, err := ReadConfig(opts.Config)
	bail(err)

	switch command {
	case "boards": /* {{{ */
		if opts.JSON {
			fmt.Printf("%s\n", asJSON(config.Sites))
			return
		}

		aliases := make([]string, 0, len(config.Sites))
		for alias := range config.Sites {
			aliases = append(aliases, alias)
		}
		sort.Strings(aliases)

		tbl := table.NewTable("", "Name", "URL", "Board", "Verify TLS?")
		for _, alias := range aliases {
			site := config.Sites[alias]
			cur := ""
			if alias == config.Current {
				cur = "*"
			}
			vfy := fmt.Sprintf("@G{yes}")
			if site.InsecureSkipVerify {
				vfy = fmt.Sprintf("@R{NO}")
			}
			tbl.Row(site, cur, alias, site.URL, site.Board, vfy)
		}
		tbl.Output(os.Stdout)
		return

	/* }}} */
	case "use": /* {{{ */
		if len(args) < 1 || len(args) > 3 {
			fail(2, "Usage: mcb %s ALIAS [URL [BOARD]]\n", command)
		}

		alias := args[0]
		if len(args) > 1 {
			url := args[1]
			if ok, _ := regexp.MatchString("^https?://", url); !ok {
				fail(2, "@R{%s} does not look like an http(s) URL\n", url)
			}
			site := Site{
				URL:                strings.TrimSuffix(url, "/"),
				InsecureSkipVerify: opts.SkipSSLValidation,
			}
			if len(args) > 2 {
				site.Board = args[2]
			}
			config.Add(alias, site)
		}

		if _, err := config.Site(alias); err != nil {
			bail(err)
		}
		config.Current = alias
		bail(config.Write())
		fmt.Printf("now using @C{%s} (%s)\n", alias, config.Sites[alias].URL)
		return

		/* }}} */
	}

	site, err := config.Site(opts.Site)
	bail(err)
	if site == nil {
		site = &Site{}
	}
	if opts.URL != "" {
		site.URL = opts.URL
	}
	if opts.Board != "" {
		site.Board = opts.Board
	}
	required(site.URL != "", "No mcweb site specified.  Try `mcb use ALIAS URL`, or the --url option.")

	c := &macaba.Client{
		URL:                site.URL,
		Debug:              opts.Debug,
		Trace:              opts.Trace,
		InsecureSkipVerify: site.InsecureSkipVerify || opts.SkipSSLValidation,
		TrustSystemCAs:     true,
		CACertificate:      site.CACertificate,
	}

	switch command {
	case "curl": /* {{{ */
		if len(args) < 1 || len(args) > 3 {
			fail(2, "Usage: mcb %s [METHOD] RELATIVE-URL [BODY]\n", command)
		}

		var method, path, body string
		switch len(args) {
		case 1:
			method = "GET"
			path = args[0]
		case 2:
			method = args[0]
			path = args[1]
		case 3:
			method = args[0]
			path = args[1]
			body = args[2]
		}

		if body == "-" {
			body = slurp("-")
		}

		code, response, err := c.Curl(strings.ToUpper(method), path, body)
		bail(err)
		fmt.Printf("%s\n", asJSON(response))
		if code >= 400 {
			os.Exit(code / 100)
		}

	/* }}} */
	case "preview": /* {{{ */
		if len(args) > 1 {
			fail(2, "Usage: mcb %s [FILE|-]\n", command)
		}
		src := "-"
		if len(args) == 1 {
			src = args[0]
		}

		popup := &screen{Label: "Preview:", Out: os.Stdout}
		if opts.JSON {
			popup.Label = ""
		}
		form := &page.PreviewForm{
			Message: page.NewTextArea("message", slurp(src)),
		}

		<-page.Preview(c, form, &page.Popup{Container: popup, Content: popup})
		if popup.Failed() {
			os.Exit(1)
		}

	/* }}} */
	case "post": /* {{{ */
		if len(args) > 1 {
			fail(2, "Usage: mcb %s [-t THREAD] [-p PASSWORD] [-f ATTACHMENT] [MARKUP-FILE|-]\n", command)
		}
		required(site.Board != "", "Missing required --board option.")

		in := &macaba.NewPostRequest{
			Board:    site.Board,
			Thread:   int64(opts.Post.Thread),
			Password: opts.Post.Password,
		}
		if len(args) == 1 {
			in.Markup = slurp(args[0])
		}
		if opts.Post.File != "" {
			b, err := ioutil.ReadFile(opts.Post.File)
			bail(err)
			in.Attachment = &macaba.Attachment{
				Name: filepath.Base(opts.Post.File),
				Data: b,
			}
		}
		required(in.Markup != "" || in.Attachment != nil, "Nothing to post; supply some markup, an attachment, or both.")

		generated := false
		if in.Password == "" {
			in.Password = randstr.Hex(8)
			generated = true
		}

		post, err := c.NewPost(in)
		bail(err)

		if opts.JSON {
			fmt.Printf("%s\n", asJSON(post))
			break
		}
		fmt.Printf("posted @G{/%s/%d}", post.Board, post.Number)
		if post.Thread != 0 {
			fmt.Printf(" in reply to @C{/%s/%d}", post.Board, post.Thread)
		}
		fmt.Printf("\n")
		if generated {
			fmt.Printf("deletion password is @Y{%s}\n", in.Password)
		}

	/* }}} */
	case "posts": /* {{{ */
		required(site.Board != "", "Missing required --board option.")

		filter := &macaba.PostFilter{}
		if opts.Posts.Thread > 0 {
			thread := int64(opts.Posts.Thread)
			filter.Thread = &thread
		}
		if opts.Posts.Limit > 0 {
			filter.Limit = &opts.Posts.Limit
		}

		posts, err := c.ListPosts(site.Board, filter)
		bail(err)

		if opts.JSON {
			fmt.Printf("%s\n", asJSON(posts))
			break
		}

		tbl := table.NewTable("#", "Thread", "Posted", "File", "Markup")
		for _, p := range posts {
			thread := "-"
			if p.Thread != 0 {
				thread = strconv.FormatInt(p.Thread, 10)
			}
			tbl.Row(p, p.Number, thread,
				time.Unix(p.Created, 0).Format("2006-01-02 15:04:05"),
				p.File, summarize(p.Markup, 50))
		}
		tbl.Output(os.Stdout)

	/* }}} */
	case "delete": /* {{{ */
		required(site.Board != "", "Missing required --board option.")

		numbers := args
		onlyFile := opts.Delete.OnlyFile
		if len(numbers) == 0 {
			required(interactive(), "Usage: mcb delete [--only-file] [-p PASSWORD] NUMBER...")

			in := tui.NewForm()
			in.NewField("Post numbers", "posts", nil, "", tui.FieldIsPostList)
			in.NewField("Only delete attachments?", "onlyfile", onlyFile, "", tui.FieldIsBoolean)
			bail(in.Show())

			numbers = in.GetField("posts").Value.([]string)
			onlyFile = in.GetField("onlyfile").Value.(bool)
		}
		for i, n := range numbers {
			numbers[i] = strings.TrimPrefix(n, ">>")
			if _, err := strconv.ParseUint(numbers[i], 10, 63); err != nil {
				fail(2, "@R{%s} is not a post number\n", n)
			}
		}

		password := opts.Delete.Password
		if password == "" {
			password = secureprompt("@Y{Deletion password}: ")
		}

		if interactive() {
			what := "posts"
			if onlyFile {
				what = "attachments of posts"
			}
			if !tui.Confirm(fmt.Sprintf("Delete %s %s from /%s/?", what, strings.Join(numbers, ", "), site.Board)) {
				fail(0, "@Y{aborting at user request}\n")
			}
		}

		form := &page.DeleteForm{
			Password: page.NewInput("password", password),
			FileOnly: page.NewCheckbox("fileonly", "", ""),
		}
		form.FileOnly.SetChecked(onlyFile)
		for _, n := range numbers {
			box := page.NewCheckbox("delete_"+n, page.SelectRole, n)
			box.SetChecked(true)
			form.Selections = append(form.Selections, box)
		}

		bar := &screen{Out: os.Stdout}
		<-page.Delete(c, site.Board, numbers[0], form, bar)
		if bar.Failed() {
			os.Exit(1)
		}

	/* }}} */
	default:
		bail(fmt.Errorf("Unrecognized command '%s'", command))
	}
}

func summarize(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}
