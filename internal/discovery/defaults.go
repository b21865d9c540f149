package discovery

// defaultIgnores are directory and file names excluded from both the
// structure artifact and indexing, regardless of configuration.
var defaultIgnores = []string{
	"node_modules", ".next", ".nuxt", "dist", "build", ".output", ".vercel",
	".netlify", "out", ".cache", ".parcel-cache", ".webpack", "coverage",
	".nyc_output", ".jest", "__pycache__", ".pytest_cache", ".mypy_cache",
	".tox", "venv", ".venv", ".env", "site-packages", "htmlcov", "*.egg-info",
	".eggs", "target", "vendor", ".gradle", ".idea", ".vs", ".bundle",
	".vscode", ".vscode-test", ".git", ".svn", ".hg", ".bzr", ".DS_Store",
	"Thumbs.db", "logs", "log", "tmp", "temp", ".tmp", ".temp", "_site",
	".docusaurus", ".expo", "*.db", "*.sqlite", "*.sqlite3", ".docker",
	".terraform", ".serverless", ".yarn", ".pnpm-store", ".playwright",
	"test-results", ".sass-cache", ".eslintcache", ".github", ".husky",
}

// defaultIndexingIgnores are patterns excluded from indexing only: files
// whose exports add noise rather than API surface (tests, config, build
// output, generated code).
var defaultIndexingIgnores = []string{
	// Test files
	"*.test.ts", "*.test.tsx", "*.test.js", "*.test.jsx",
	"*.spec.ts", "*.spec.tsx", "*.spec.js", "*.spec.jsx",
	"*.test.mjs", "*.test.cjs", "*.spec.mjs", "*.spec.cjs",
	"__tests__", "__mocks__", "test", "tests",

	// Config files
	"*.config.ts", "*.config.js", "*.config.mjs", "*.config.cjs",
	"vite.config.*", "next.config.*", "nuxt.config.*", "tailwind.config.*",
	"postcss.config.*", "jest.config.*", "vitest.config.*",
	"webpack.config.*", "rollup.config.*", "babel.config.*",
	"eslint.config.*", "prettier.config.*",

	// Declaration files are already type definitions
	"*.d.ts",

	// Generated code
	"*.generated.ts", "*.generated.js", "generated", "codegen", ".codegen",

	// Storybook and end-to-end suites
	"*.stories.ts", "*.stories.tsx", "*.stories.js", "*.stories.jsx",
	".storybook", "e2e", "cypress", "playwright",

	// Tooling, migrations, assets
	"scripts", "tools", "bin", "migrations", "seeds", "fixtures",
	"public", "static", "assets",
}
