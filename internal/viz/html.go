package viz

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/fredbr/cocite/internal/citations"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("viz").Parse(htmlTemplate))
}

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Layout  string // "force", "circle", or "grid"
	KCited  int
	KCiting int
}

// ValidLayouts lists the supported layout algorithm names.
var ValidLayouts = []string{"force", "circle", "grid"}

// GenerateHTML generates a self-contained HTML page for the citation graph.
func GenerateHTML(graph *citations.Graph, opts HTMLOptions) (string, error) {
	if graph == nil {
		return "", fmt.Errorf("graph cannot be nil")
	}

	if err := validateLayout(opts.Layout); err != nil {
		return "", err
	}

	if graph.IsEmpty() {
		return generateEmptyHTML(), nil
	}

	graphJSON, err := ToCytoscapeJSON(graph)
	if err != nil {
		return "", err
	}

	data := templateData{
		GraphJSON:   template.JS(graphJSON),
		Layout:      layoutToCytoscape(opts.Layout),
		KCited:      opts.KCited,
		KCiting:     opts.KCiting,
		SeedCount:   len(graph.SeedPapers),
		CitedCount:  len(graph.CitedPapers),
		CitingCount: len(graph.CitingPapers),
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// validateLayout checks if the layout option is valid.
func validateLayout(layout string) error {
	switch layout {
	case "", "force", "circle", "grid":
		return nil
	default:
		return fmt.Errorf("invalid layout %q: must be force, circle, or grid", layout)
	}
}

// layoutToCytoscape converts user-friendly layout names to Cytoscape.js
// layout algorithm names.
func layoutToCytoscape(layout string) string {
	switch layout {
	case "circle":
		return "circle"
	case "grid":
		return "grid"
	default:
		return "cose"
	}
}

// templateData holds data for the HTML template.
type templateData struct {
	GraphJSON   template.JS
	Layout      string
	KCited      int
	KCiting     int
	SeedCount   int
	CitedCount  int
	CitingCount int
}

// generateEmptyHTML returns HTML for an empty graph state.
func generateEmptyHTML() string {
	return `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Citation Graph - Empty</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f5f5f5;
    }
    .empty-state {
      text-align: center;
      color: #666;
    }
    .empty-state h2 {
      margin-bottom: 0.5em;
      color: #333;
    }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>No graph data</h2>
    <p>No seed paper resolved to an identity, so there is nothing to draw.</p>
    <p>Check the input document or lower the thresholds.</p>
  </div>
</body>
</html>`
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Citation Graph</title>
  <script src="https://unpkg.com/cytoscape@3/dist/cytoscape.min.js"></script>
  <style>
    * {
      box-sizing: border-box;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 0;
      background: #f5f5f5;
    }
    #cy {
      width: 100%;
      height: 100vh;
      background: white;
    }
    #legend {
      position: fixed;
      top: 10px;
      left: 10px;
      background: white;
      padding: 12px 15px;
      border-radius: 8px;
      box-shadow: 0 2px 10px rgba(0,0,0,0.2);
      font-size: 12px;
      z-index: 1000;
    }
    #legend h3 {
      margin: 0 0 8px 0;
      font-size: 14px;
    }
    #legend .swatch {
      display: inline-block;
      width: 14px;
      height: 14px;
      margin-right: 6px;
      vertical-align: middle;
    }
    #legend .row {
      margin: 4px 0;
    }
    #tooltip {
      position: absolute;
      display: none;
      background: white;
      border: 1px solid #ccc;
      border-radius: 4px;
      padding: 8px 12px;
      box-shadow: 0 2px 8px rgba(0,0,0,0.15);
      max-width: 320px;
      font-size: 13px;
      z-index: 1000;
      pointer-events: none;
    }
    #tooltip .type {
      font-size: 10px;
      text-transform: uppercase;
      color: #888;
      margin-bottom: 4px;
    }
    #tooltip .title {
      font-weight: bold;
      margin-bottom: 4px;
    }
    #tooltip .detail {
      color: #555;
      margin: 2px 0;
    }
  </style>
</head>
<body>
  <div id="cy"></div>
  <div id="legend">
    <h3>Citation Graph</h3>
    <div class="row"><span class="swatch" style="background:#4CAF50"></span>Seed papers (S) &mdash; {{.SeedCount}}</div>
    <div class="row"><span class="swatch" style="background:#2196F3;border-radius:50%"></span>Cited by &ge;{{.KCited}} seeds (R_k) &mdash; {{.CitedCount}}</div>
    <div class="row"><span class="swatch" style="background:#FF9800"></span>Citing &ge;{{.KCiting}} seeds (Q_k') &mdash; {{.CitingCount}}</div>
    <div class="row" style="color:#666">Edges: paper &rarr; cites &rarr; paper</div>
  </div>
  <div id="tooltip"></div>
  <script>
    (function() {
      const graphData = {{.GraphJSON}};
      const layout = "{{.Layout}}";

      const cy = cytoscape({
        container: document.getElementById('cy'),
        elements: graphData,
        style: [
          // Seed papers - green squares
          {
            selector: 'node[type="seed"]',
            style: {
              'background-color': '#4CAF50',
              'shape': 'rectangle',
              'label': 'data(label)',
              'color': '#333',
              'font-size': '10px',
              'text-valign': 'bottom',
              'text-margin-y': '5px',
              'width': '36px',
              'height': '36px',
              'border-width': 2,
              'border-color': '#2E7D32'
            }
          },
          // Cited papers (R_k) - blue circles sized by c_in
          {
            selector: 'node[type="cited"]',
            style: {
              'background-color': '#2196F3',
              'shape': 'ellipse',
              'label': 'data(label)',
              'color': '#333',
              'font-size': '9px',
              'text-valign': 'bottom',
              'text-margin-y': '4px',
              'width': 'mapData(count, 1, 10, 20, 55)',
              'height': 'mapData(count, 1, 10, 20, 55)'
            }
          },
          // Citing papers (Q_k') - orange triangles sized by c_out
          {
            selector: 'node[type="citing"]',
            style: {
              'background-color': '#FF9800',
              'shape': 'triangle',
              'label': 'data(label)',
              'color': '#333',
              'font-size': '9px',
              'text-valign': 'bottom',
              'text-margin-y': '4px',
              'width': 'mapData(count, 1, 10, 20, 55)',
              'height': 'mapData(count, 1, 10, 20, 55)'
            }
          },
          {
            selector: 'edge',
            style: {
              'line-color': '#cccccc',
              'target-arrow-color': '#999999',
              'target-arrow-shape': 'triangle',
              'arrow-scale': 0.8,
              'curve-style': 'bezier',
              'width': 1.5
            }
          },
          {
            selector: 'node.highlighted',
            style: {
              'border-width': 3,
              'border-color': '#ff6b6b'
            }
          },
          {
            selector: 'node.dimmed',
            style: {
              'opacity': 0.3
            }
          },
          {
            selector: 'edge.dimmed',
            style: {
              'opacity': 0.2
            }
          }
        ],
        layout: {
          name: layout,
          animate: false,
          nodeRepulsion: 8000,
          idealEdgeLength: 120,
          edgeElasticity: 100
        }
      });

      const tooltip = document.getElementById('tooltip');

      function showTooltip(evt, content) {
        tooltip.innerHTML = content;
        tooltip.style.display = 'block';
        const pos = evt.renderedPosition || evt.position;
        tooltip.style.left = (pos.x + 15) + 'px';
        tooltip.style.top = (pos.y + 15) + 'px';
      }

      function hideTooltip() {
        tooltip.style.display = 'none';
      }

      function escapeHtml(str) {
        if (!str) return '';
        return str.replace(/&/g, '&amp;')
                  .replace(/</g, '&lt;')
                  .replace(/>/g, '&gt;')
                  .replace(/"/g, '&quot;');
      }

      function getNodeTooltip(node) {
        const data = node.data();
        const typeLabel = {seed: 'Seed paper', cited: 'Cited paper', citing: 'Citing paper'}[data.type];
        let html = '<div class="type">' + typeLabel + '</div>';
        html += '<div class="title">' + escapeHtml(data.title || data.id) + '</div>';
        if (data.authors) html += '<div class="detail">Authors: ' + escapeHtml(data.authors) + '</div>';
        if (data.year) html += '<div class="detail">Year: ' + data.year + '</div>';
        if (data.venue) html += '<div class="detail">Venue: ' + escapeHtml(data.venue) + '</div>';
        if (data.type === 'cited') html += '<div class="detail">c_in: ' + data.count + '</div>';
        if (data.type === 'citing') html += '<div class="detail">c_out: ' + data.count + '</div>';
        return html;
      }

      cy.on('mouseover', 'node', function(evt) {
        showTooltip(evt, getNodeTooltip(evt.target));
      });

      cy.on('mouseout', 'node', function() {
        hideTooltip();
      });

      cy.on('tap', 'node', function(evt) {
        const node = evt.target;
        cy.elements().removeClass('highlighted dimmed');
        const neighborhood = node.neighborhood().add(node);
        neighborhood.addClass('highlighted');
        cy.elements().not(neighborhood).addClass('dimmed');
      });

      cy.on('tap', function(evt) {
        if (evt.target === cy) {
          cy.elements().removeClass('highlighted dimmed');
        }
      });
    })();
  </script>
</body>
</html>`
