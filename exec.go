package iconforge

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/iconforge/iconforge/utils"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// pipeName is the reserved source name for reading the image from stdin.
const pipeName = "-"

// Ops describes a CLI invocation: a source file or directory, a destination
// directory and the export settings shared by every processed source.
type Ops struct {
	Src     string
	Dst     string
	Workers int
	Request ExportRequest

	spinner *utils.Spinner
}

// result holds the relevant information about one processed source image.
type result struct {
	path string
	res  *ExportResult
	err  error
}

// Execute runs the export process. When the source is a directory every
// supported image file inside it is exported concurrently through a bounded
// worker pool, otherwise the single source file is processed.
func (op *Ops) Execute() {
	defaultMsg := fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ ICONFORGE", utils.StatusMessage),
		utils.DecorateText("⇢ exporting image...", utils.DefaultMessage),
	)
	op.spinner = utils.NewSpinner(defaultMsg, time.Millisecond*80)

	// Supported source files
	validExtensions := []string{".svg", ".png", ".jpg", ".jpeg"}

	// Check if the source is a pipe name or a regular file.
	if op.Src == pipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			log.Fatal(utils.DecorateText("`-` should be used with a pipe for stdin", utils.ErrorMessage))
		}
		tmp, err := readStdin()
		if err != nil {
			log.Fatalf(
				utils.DecorateText("Failed to read the source image from stdin: %v", utils.ErrorMessage),
				utils.DecorateText(err.Error(), utils.DefaultMessage),
			)
		}
		defer os.Remove(tmp)

		op.Src = tmp
		if op.Request.BaseName == "" {
			op.Request.BaseName = "icon"
		}
	}

	fs, err := os.Stat(op.Src)
	if err != nil {
		log.Fatalf(
			utils.DecorateText("Failed to load the source image: %v", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}

	if err := os.MkdirAll(op.Dst, 0755); err != nil {
		log.Fatalf(
			utils.DecorateText("Unable to create the destination directory: %v\n", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}

	now := time.Now()

	switch mode := fs.Mode(); {
	case mode.IsDir():
		var wg sync.WaitGroup

		op.Request.BaseName = ""

		// Limit the concurrently running workers to maxWorkers.
		if op.Workers <= 0 || op.Workers > maxWorkers {
			op.Workers = runtime.NumCPU()
		}

		// Process the image files from the specified directory concurrently.
		// Every source keeps its own file stem, so two exports never write
		// to the same destination file.
		ch := make(chan result)
		done := make(chan interface{})
		defer close(done)

		paths, errc := walkDir(done, op.Src, validExtensions)

		wg.Add(op.Workers)
		for i := 0; i < op.Workers; i++ {
			go func() {
				defer wg.Done()
				op.consumer(ch, done, paths)
			}()
		}

		// Close the channel after the values are consumed.
		go func() {
			defer close(ch)
			wg.Wait()
		}()

		// Consume the channel values.
		for res := range ch {
			op.printOpStatus(res)
		}

		if err := <-errc; err != nil {
			fmt.Fprint(os.Stderr, utils.DecorateText(err.Error(), utils.ErrorMessage))
		}

	case mode.IsRegular():
		op.printOpStatus(op.process(op.Src))
	}

	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n",
		utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
}

// consumer reads the path names from the paths channel and runs the export
// pipeline against each source image.
func (op *Ops) consumer(res chan<- result, done <-chan interface{}, paths <-chan string) {
	for src := range paths {
		r := op.process(src)

		select {
		case <-done:
			return
		case res <- r:
		}
	}
}

// process exports one source image and reports the outcome.
func (op *Ops) process(in string) result {
	// Capture CTRL-C signal and restore back the cursor visibility.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalChan
		op.spinner.RestoreCursor()
		os.Exit(1)
	}()

	// Start the progress indicator.
	op.spinner.Start()

	req := op.Request
	req.Source = in
	req.Dir = op.Dst

	res, err := Export(&req)

	if err != nil {
		op.spinner.StopMsg = fmt.Sprintf("%s %s %s",
			utils.DecorateText("⚡ ICONFORGE", utils.StatusMessage),
			utils.DecorateText("exporting image failed...", utils.DefaultMessage),
			utils.DecorateText("✘", utils.ErrorMessage),
		)
	} else {
		op.spinner.StopMsg = fmt.Sprintf("%s %s %s",
			utils.DecorateText("⚡ ICONFORGE", utils.StatusMessage),
			utils.DecorateText("⇢", utils.DefaultMessage),
			utils.DecorateText("the image has been exported successfully ✔", utils.SuccessMessage),
		)
	}

	// Stop the progress indicator.
	op.spinner.Stop()

	return result{path: in, res: res, err: err}
}

// printOpStatus displays the relevant information about the export process.
func (op *Ops) printOpStatus(r result) {
	if r.err != nil {
		log.Fatalf(
			utils.DecorateText("\nError exporting the image: %s", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", r.err.Error()), utils.DefaultMessage),
		)
	}

	for _, f := range r.res.Failures {
		fmt.Fprintf(os.Stderr, "%s\n",
			utils.DecorateText(fmt.Sprintf("skipped %v", f), utils.ErrorMessage))
	}
	fmt.Fprintf(os.Stderr, "\n%d file(s) have been saved into: %s %s\n\n",
		len(r.res.Written),
		utils.DecorateText(op.Dst, utils.SuccessMessage),
		utils.DefaultColor,
	)
}

// readStdin drains the piped source into a temporary file, so the export
// pipeline can treat it like any other source path. The file extension is
// derived from the sniffed content type, defaulting to SVG.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}

	ext := ".svg"
	switch http.DetectContentType(data) {
	case "image/png":
		ext = ".png"
	case "image/jpeg":
		ext = ".jpg"
	}

	tmp, err := os.CreateTemp("", "iconforge-*"+ext)
	if err != nil {
		return "", err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// walkDir starts a new goroutine to walk the specified directory tree
// in recursive manner and sends the path of each regular file to a new channel.
// It finishes in case the done channel is getting closed.
func walkDir(
	done <-chan interface{},
	src string,
	srcExts []string,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !f.Mode().IsRegular() {
				return nil
			}

			if utils.Contains(srcExts, filepath.Ext(f.Name())) {
				select {
				case <-done:
					return errors.New("directory walk cancelled")
				case pathChan <- path:
				}
			}
			return nil
		})
	}()
	return pathChan, errChan
}
