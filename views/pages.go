package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// NotFound returns the fixed 404 document served for unmatched paths.
func NotFound(siteName string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		name := templ.EscapeString(siteName)
		_, err := io.WriteString(w, `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>404 - Page Not Found</title>
    <link rel="stylesheet" href="/css/style.css">
</head>
<body>
    <header>
        <nav>
            <div class="nav-container">
                <a href="/" class="logo">`+name+`</a>
                <ul class="nav-links">
                    <li><a href="/">Home</a></li>
                    <li><a href="/blog.html">Blog</a></li>
                </ul>
            </div>
        </nav>
    </header>
    <main>
        <section class="hero">
            <h1>404 - Page Not Found</h1>
            <p>Sorry, the page you're looking for doesn't exist.</p>
            <p><a href="/">Return to Home</a></p>
        </section>
    </main>
    <footer>
        <p>&copy; `+name+`</p>
    </footer>
</body>
</html>
`)
		return err
	})
}

// ServerError returns the generic 500 document. It never includes error
// details.
func ServerError() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>500 - Server Error</title>
    <link rel="stylesheet" href="/css/style.css">
</head>
<body>
    <main>
        <section class="hero">
            <h1>500 - Server Error</h1>
            <p>Something went wrong. Please try again later.</p>
        </section>
    </main>
</body>
</html>
`)
		return err
	})
}
