package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/carteira/studio"
	"github.com/google/subcommands"
)

func newStudio(ctx context.Context) (*studio.Studio, error) {
	client, err := newAIClient(ctx, newLogger())
	if err != nil {
		return nil, err
	}
	return studio.New(client), nil
}

type chatCmd struct{}

func (*chatCmd) Name() string     { return "chat" }
func (*chatCmd) Synopsis() string { return "ask a question to the AI and stream the answer" }
func (*chatCmd) Usage() string {
	return `cart chat <prompt>

  Sends the prompt to the text model and prints the answer as it arrives.
  Requires GEMINI_API_KEY.
`
}
func (*chatCmd) SetFlags(*flag.FlagSet) {}
func (*chatCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	prompt := strings.Join(f.Args(), " ")
	if prompt == "" {
		return fail("missing prompt")
	}
	st, err := newStudio(ctx)
	if err != nil {
		return fail("%v", err)
	}
	printed := 0
	_, err = st.StreamChat(ctx, prompt, func(text string) {
		fmt.Fprint(stdout, text[printed:])
		printed = len(text)
	})
	fmt.Fprintln(stdout)
	if err != nil {
		return fail("%v", err)
	}
	return subcommands.ExitSuccess
}

type imageCmd struct {
	output string
}

func (*imageCmd) Name() string     { return "image" }
func (*imageCmd) Synopsis() string { return "generate an image with the AI" }
func (*imageCmd) Usage() string {
	return `cart image [-o <file>] <prompt>

  Generates a square image from the prompt. Requires GEMINI_API_KEY.
`
}
func (p *imageCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.output, "o", "image.png", "Output file.")
}
func (p *imageCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	prompt := strings.Join(f.Args(), " ")
	if prompt == "" {
		return fail("missing prompt")
	}
	st, err := newStudio(ctx)
	if err != nil {
		return fail("%v", err)
	}
	img, err := st.GenerateImage(ctx, prompt)
	if err != nil {
		return fail("%v", err)
	}
	data, _, err := studio.DecodeDataURL(img.URL)
	if err != nil {
		return fail("%v", err)
	}
	if err := os.WriteFile(p.output, data, 0644); err != nil {
		return fail("%v", err)
	}
	fmt.Fprintf(stdout, "Imagem salva em %s\n", p.output)
	return subcommands.ExitSuccess
}

type videoCmd struct {
	output string
}

func (*videoCmd) Name() string     { return "video" }
func (*videoCmd) Synopsis() string { return "generate a video with the AI" }
func (*videoCmd) Usage() string {
	return `cart video [-o <file>] <prompt>

  Generates a 16:9 video from the prompt. Generation takes minutes, the
  operation is polled until done (CART_VIDEO_POLL). Requires GEMINI_API_KEY.
`
}
func (p *videoCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.output, "o", "video.mp4", "Output file.")
}
func (p *videoCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	prompt := strings.Join(f.Args(), " ")
	if prompt == "" {
		return fail("missing prompt")
	}
	st, err := newStudio(ctx)
	if err != nil {
		return fail("%v", err)
	}
	v, err := st.GenerateVideo(ctx, prompt)
	if err != nil {
		return fail("%v", err)
	}
	fmt.Fprintln(os.Stderr, "Gerando o vídeo, isso pode levar alguns minutos...")
	if err := st.WaitVideo(ctx, v); err != nil {
		return fail("%v", err)
	}
	out, err := os.Create(p.output)
	if err != nil {
		return fail("%v", err)
	}
	if err := st.DownloadVideo(ctx, v, out); err != nil {
		out.Close()
		return fail("%v", err)
	}
	if err := out.Close(); err != nil {
		return fail("%v", err)
	}
	fmt.Fprintf(stdout, "Vídeo salvo em %s\n", p.output)
	return subcommands.ExitSuccess
}
