package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/savvy/httpclient"
)

type requestOptions struct {
	data      []string
	jsonBody  string
	headers   []string
	files     []string
	bodyFile  string
	stream    bool
	chunkSize int
	failFast  bool
	quiet     bool
	query     string
}

func newRequestCmd(a *app) *cobra.Command {
	var o requestOptions

	cmd := &cobra.Command{
		Use:   "request METHOD ROUTE",
		Short: "Send a REST request to the configured base URL",
		Long: `Send a GET, POST, PUT or DELETE request to client.base_url + ROUTE.

GET and DELETE send the payload as query parameters; POST and PUT send it as
a JSON body unless --file or --body-file supplies a raw body. The parsed JSON
response is printed to stdout. A failed status exits with code 1.`,
		Example: `  savvyctl request GET /users -d limit=10 -d tag=a -d tag=b
  savvyctl request POST /users --json '{"name":"ada"}'
  savvyctl request PUT /avatar --file avatar=./me.png -d caption=me
  savvyctl request GET /builds/42/log --stream
  savvyctl request GET /users --query 'items[].name'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.request(cmd.Context(), args[0], args[1], o)
		},
	}

	fs := cmd.Flags()
	fs.StringArrayVarP(&o.data, "data", "d", nil, "payload field key=value, repeatable; values are parsed as JSON when possible")
	fs.StringVar(&o.jsonBody, "json", "", "payload as a JSON object")
	fs.StringArrayVarP(&o.headers, "header", "H", nil, `request header "Name: value", repeatable`)
	fs.StringArrayVarP(&o.files, "file", "F", nil, "multipart file field=path, repeatable")
	fs.StringVar(&o.bodyFile, "body-file", "", "send the file content verbatim as the body")
	fs.BoolVar(&o.stream, "stream", false, "log the response body line by line instead of parsing it")
	fs.IntVar(&o.chunkSize, "chunk-size", httpclient.DefaultChunkSize, "read size for --stream")
	fs.BoolVar(&o.failFast, "fail-fast", false, "exit on the first failure")
	fs.BoolVarP(&o.quiet, "quiet", "q", false, "do not log failed requests")
	fs.StringVar(&o.query, "query", "", "JMESPath expression applied to the response")
	cmd.MarkFlagsMutuallyExclusive("file", "body-file")

	return cmd
}

func (a *app) request(ctx context.Context, methodArg, route string, o requestOptions) error {
	method, err := httpclient.ParseMethod(methodArg)
	if err != nil {
		return err
	}

	cc, err := a.cfg.clientConfig(ctx, a.log.WithComponent("httpclient"))
	if err != nil {
		return err
	}
	client, err := httpclient.New(cc)
	if err != nil {
		return err
	}

	opts, closeFiles, err := o.build()
	defer closeFiles()
	if err != nil {
		return err
	}

	resp, err := client.Do(ctx, method, route, httpclient.NewRequest(opts...))
	if resp != nil {
		defer func() { _ = resp.Close() }()
	}
	if err != nil {
		return err
	}

	if o.stream && resp.OK {
		return resp.LogStream(ctx, o.chunkSize)
	}

	out := resp.JSON
	if o.query != "" {
		if out, err = resp.Search(o.query); err != nil {
			return fmt.Errorf("query %q: %w", o.query, err)
		}
	}
	if err := printJSON(a.out, out); err != nil {
		return err
	}

	if !resp.OK {
		return &exitError{code: 1}
	}
	return nil
}

// build translates the flags into request options. The returned
// func closes any files opened for the body.
func (o requestOptions) build() ([]httpclient.RequestOption, func(), error) {
	var files []*os.File
	closeFiles := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	payload, err := o.payload()
	if err != nil {
		return nil, closeFiles, err
	}
	headers, err := parseHeaders(o.headers)
	if err != nil {
		return nil, closeFiles, err
	}

	opts := []httpclient.RequestOption{
		httpclient.WithPayload(payload),
		httpclient.WithHeaders(headers),
		httpclient.WithFailFast(o.failFast),
		httpclient.WithLogOnError(!o.quiet),
	}
	if o.stream {
		opts = append(opts, httpclient.WithStream())
	}

	switch {
	case o.bodyFile != "":
		f, err := os.Open(o.bodyFile)
		if err != nil {
			return nil, closeFiles, err
		}
		files = append(files, f)
		opts = append(opts, httpclient.WithBody(f))

	case len(o.files) > 0:
		mp := &httpclient.MultipartBody{}
		for k, v := range payload {
			mp.AddField(k, fmt.Sprint(v))
		}
		for _, arg := range o.files {
			field, path, ok := strings.Cut(arg, "=")
			if !ok || field == "" || path == "" {
				return nil, closeFiles, fmt.Errorf("invalid --file %q, want field=path", arg)
			}
			f, err := os.Open(path)
			if err != nil {
				return nil, closeFiles, err
			}
			files = append(files, f)
			mp.AddFile(field, filepath.Base(path), f)
		}
		opts = append(opts, httpclient.WithMultipart(mp))
	}

	return opts, closeFiles, nil
}

// payload merges --json and --data. Repeating a --data key collects the
// values into a list.
func (o requestOptions) payload() (map[string]any, error) {
	payload := map[string]any{}
	if o.jsonBody != "" {
		if err := json.Unmarshal([]byte(o.jsonBody), &payload); err != nil {
			return nil, fmt.Errorf("invalid --json: %w", err)
		}
	}

	seen := map[string]bool{}
	for _, kv := range o.data {
		key, raw, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --data %q, want key=value", kv)
		}
		value := parseValue(raw)

		switch existing := payload[key]; {
		case !seen[key]:
			payload[key] = value
		case isList(existing):
			payload[key] = append(existing.([]any), value)
		default:
			payload[key] = []any{existing, value}
		}
		seen[key] = true
	}

	if len(payload) == 0 {
		return nil, nil
	}
	return payload, nil
}

func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}

func isList(v any) bool {
	_, ok := v.([]any)
	return ok
}

func parseHeaders(specs []string) (map[string]string, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(specs))
	for _, h := range specs {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --header %q, want \"Name: value\"", h)
		}
		headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return headers, nil
}

func printJSON(w io.Writer, v any) error {
	if v == nil {
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
