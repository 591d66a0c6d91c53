package help

const ColdstartYAML = `# llm-readiness Quick Start

inputs:
  page_signals: "YAML or JSON list of page signals (url, status_code, title, headings, site, ...)"
  html: "A fetched HTML file plus optional robots.txt, llms.txt and sitemap.xml"
  rules: "Optional YAML file overriding weights, thresholds, issues and platform tables"

commands:
  score_pages: |
    llm-readiness score --input pages.yaml

  score_and_store: |
    llm-readiness --db audit.db score --input pages.yaml --project <project_id>

  extract_signals: |
    llm-readiness extract --url https://example.com/ --html index.html --robots robots.txt --llms llms.txt --score

  progress: |
    llm-readiness --db audit.db progress --project <project_id> --user <owner_id>

  insights: |
    llm-readiness --db audit.db insights --crawl <crawl_id>
    llm-readiness --db audit.db insights --crawl <crawl_id> --refresh --resolved MISSING_LLMS_TXT

  benchmarks: |
    llm-readiness --db audit.db benchmark add --project <project_id> --user <owner_id> --domain rival.com --input rival-home.yaml
    llm-readiness --db audit.db benchmark compare --project <project_id> --user <owner_id>

  offsite: |
    llm-readiness visibility --input probes.yaml
    llm-readiness citation --url https://example.com/guide --html guide.html --citation-worthiness 72

  metrics: |
    llm-readiness score --input pages.yaml --metrics-file /var/lib/node_exporter/llm_readiness.prom

scores:
  categories: "technical, content, ai_readiness, performance (0-100 each)"
  overall: "weighted mean of the four categories, default weights 25/30/30/15"
  grades: "A >= 90, B >= 80, C >= 70, D >= 60, else F"
  gates: "HTTP_ERROR and NOINDEX cap technical and ai_readiness"

output:
  - "Every command prints a YAML envelope: verb, data, error"
  - "error.error_type is not_found, no_data, invalid_input or a failure type"
  - "Logs are JSON on stderr; --quiet keeps only errors"
`
