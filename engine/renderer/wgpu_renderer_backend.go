package renderer

import (
	_ "embed"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/camera"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/backdrop.wgsl
var backdropShaderSource string

// vertexBuffer is a GPU vertex buffer that grows to fit the largest upload seen so far.
type vertexBuffer struct {
	label    string
	buf      *wgpu.Buffer
	capacity uint64
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	msaaTexture          *wgpu.Texture
	msaaTextureView      *wgpu.TextureView
	depthTexture         *wgpu.Texture
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode          wgpu.PresentMode // defaults to PresentModeFifo (VSync)
	sampleCount          MSAASampleCount  // MSAA sample count for the main render pass
	forceFallbackAdapter bool

	uniformBuffer   *wgpu.Buffer
	bindGroupLayout *wgpu.BindGroupLayout
	bindGroup       *wgpu.BindGroup
	pipelineLayout  *wgpu.PipelineLayout
	shaderModule    *wgpu.ShaderModule

	alphaPointPipeline    *wgpu.RenderPipeline
	additivePointPipeline *wgpu.RenderPipeline
	linePipeline          *wgpu.RenderPipeline

	points vertexBuffer
	lines  vertexBuffer

	// Per-frame CPU staging, reused across frames
	pointVertices []float32
	lineVertices  []float32
	pointDraws    []drawRange
	lineDraws     []drawRange

	// Frame state between begin and present
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

// NewWGPUBackend creates a WebGPU backend drawing onto the surface described by surfaceDescriptor.
// The OS thread is locked for the lifetime of the backend since the device is bound to it.
// The surface itself is configured by the first Configure call.
//
// Parameters:
//   - surfaceDescriptor: the platform surface, e.g. from window.Window.SurfaceDescriptor
//   - options: functional options to configure the backend
//
// Returns:
//   - RendererBackend: the backend
//   - error: an error if no adapter or device could be acquired
func NewWGPUBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, options ...WGPUBackendOption) (RendererBackend, error) {
	if surfaceDescriptor == nil {
		return nil, fmt.Errorf("no surface descriptor")
	}
	runtime.LockOSThread()

	b := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		presentMode: wgpu.PresentModeFifo,
		sampleCount: MSAA4x,
		points:      vertexBuffer{label: "Point Sprite Vertex Buffer"},
		lines:       vertexBuffer{label: "Wireframe Vertex Buffer"},
	}
	for _, opt := range options {
		opt(b)
	}

	b.instance = wgpu.CreateInstance(nil)
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: b.forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	b.adapter = a

	limits := wgpu.DefaultLimits()
	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Backdrop Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: limits,
		},
	})
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()

	if err := b.initCameraBinding(); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

// initCameraBinding creates the camera uniform buffer and the single bind group every pipeline shares.
func (b *wgpuRendererBackendImpl) initCameraBinding() error {
	var u camera.GPUCameraUniform
	size := uint64(u.Size())

	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Camera Uniform Buffer",
		Size:  size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create camera uniform buffer: %w", err)
	}
	b.uniformBuffer = buf

	layout, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Camera Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: size,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create camera bind group layout: %w", err)
	}
	b.bindGroupLayout = layout

	bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Camera Bind Group",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  buf,
				Offset:  0,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create camera bind group: %w", err)
	}
	b.bindGroup = bg
	return nil
}

func (b *wgpuRendererBackendImpl) Type() RendererBackendType {
	return BackendTypeWGPU
}

func (b *wgpuRendererBackendImpl) Configure(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid surface size %dx%d", width, height)
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 || len(capabilities.AlphaModes) == 0 {
		return fmt.Errorf("surface reports no supported formats")
	}
	b.surfaceFormat = &capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.releaseTargets()

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1

	if msaaEnabled {
		// The render pass draws into the MSAA texture and resolves into the swapchain view.
		msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        *b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			return fmt.Errorf("failed to create MSAA texture: %w", err)
		}
		b.msaaTexture = msaaTexture
		b.msaaTextureView, err = msaaTexture.CreateView(nil)
		if err != nil {
			return fmt.Errorf("failed to create MSAA view: %w", err)
		}
	}

	// Depth texture sample count must match the color attachment.
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("failed to create depth texture: %w", err)
	}
	b.depthTexture = depthTexture
	b.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("failed to create depth view: %w", err)
	}

	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:          b.msaaTextureView, // nil when MSAA is off; set per frame
				ResolveTarget: nil,               // set per frame when MSAA is on
				LoadOp:        wgpu.LoadOpClear,
				StoreOp:       storeOp,
				ClearValue:    wgpu.Color{A: 1.0},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}

	if b.linePipeline == nil {
		if err := b.createPipelines(); err != nil {
			return err
		}
	}
	return nil
}

// releaseTargets frees the size-dependent textures before they are recreated.
func (b *wgpuRendererBackendImpl) releaseTargets() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

// createPipelines builds the three render pipelines. Called once the surface format is known.
func (b *wgpuRendererBackendImpl) createPipelines() error {
	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Backdrop Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: camera.GPUCameraUniformSource + "\n" + backdropShaderSource,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to compile backdrop shader: %w", err)
	}
	b.shaderModule = module

	layout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Backdrop Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.bindGroupLayout},
	})
	if err != nil {
		return fmt.Errorf("failed to create pipeline layout: %w", err)
	}
	b.pipelineLayout = layout

	pointLayout := wgpu.VertexBufferLayout{
		ArrayStride: pointVertexFloats * 4,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 20, ShaderLocation: 2},
		},
	}
	lineLayout := wgpu.VertexBufferLayout{
		ArrayStride: lineVertexFloats * 4,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 12, ShaderLocation: 1},
		},
	}

	alphaBlend := &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}
	additiveBlend := &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOne,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOne,
			Operation: wgpu.BlendOperationAdd,
		},
	}

	if b.alphaPointPipeline, err = b.createPipeline("Point Sprite", "vs_point", pointLayout, wgpu.PrimitiveTopologyTriangleList, alphaBlend); err != nil {
		return err
	}
	if b.additivePointPipeline, err = b.createPipeline("Additive Point Sprite", "vs_point", pointLayout, wgpu.PrimitiveTopologyTriangleList, additiveBlend); err != nil {
		return err
	}
	if b.linePipeline, err = b.createPipeline("Wireframe", "vs_line", lineLayout, wgpu.PrimitiveTopologyLineList, alphaBlend); err != nil {
		return err
	}
	return nil
}

// createPipeline builds one translucent render pipeline over the shared shader module.
// Translucent geometry tests depth but does not write it, so overlapping sprites blend.
func (b *wgpuRendererBackendImpl) createPipeline(label, vertexEntry string, layout wgpu.VertexBufferLayout, topology wgpu.PrimitiveTopology, blend *wgpu.BlendState) (*wgpu.RenderPipeline, error) {
	p, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label + " Render Pipeline",
		Layout: b.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     b.shaderModule,
			EntryPoint: vertexEntry,
			Buffers:    []wgpu.VertexBufferLayout{layout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     b.shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    *b.surfaceFormat,
					Blend:     blend,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  topology,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: false,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s pipeline: %w", label, err)
	}
	return p, nil
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) Draw(f *Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.renderPassDescriptor == nil {
		return fmt.Errorf("surface not configured")
	}

	u := camera.GPUCameraUniform{
		View:       f.View,
		Proj:       f.Proj,
		FogColor:   f.FogColor,
		FogDensity: f.FogDensity,
	}
	b.queue.WriteBuffer(b.uniformBuffer, 0, u.Marshal())

	if err := b.stageVertices(f); err != nil {
		return err
	}

	b.renderPassDescriptor.ColorAttachments[0].ClearValue = wgpu.Color{
		R: float64(f.Background[0]),
		G: float64(f.Background[1]),
		B: float64(f.Background[2]),
		A: 1.0,
	}
	if err := b.beginFrame(); err != nil {
		return err
	}

	pass := b.framePass
	pass.SetBindGroup(0, b.bindGroup, nil)
	if len(b.lineDraws) > 0 {
		pass.SetPipeline(b.linePipeline)
		pass.SetVertexBuffer(0, b.lines.buf, 0, wgpu.WholeSize)
		for _, d := range b.lineDraws {
			pass.Draw(d.count, 1, d.first, 0)
		}
	}
	if len(b.pointDraws) > 0 {
		pass.SetVertexBuffer(0, b.points.buf, 0, wgpu.WholeSize)
		for _, d := range b.pointDraws {
			if d.additive {
				pass.SetPipeline(b.additivePointPipeline)
			} else {
				pass.SetPipeline(b.alphaPointPipeline)
			}
			pass.Draw(d.count, 1, d.first, 0)
		}
	}

	b.endFrame()
	b.present()
	return nil
}

// stageVertices expands the frame into vertex data and uploads it.
func (b *wgpuRendererBackendImpl) stageVertices(f *Frame) error {
	b.pointVertices = b.pointVertices[:0]
	b.pointDraws = b.pointDraws[:0]
	for _, batch := range f.Points {
		first := uint32(len(b.pointVertices) / pointVertexFloats)
		b.pointVertices = appendPointVertices(b.pointVertices, batch)
		count := uint32(len(b.pointVertices)/pointVertexFloats) - first
		if count > 0 {
			b.pointDraws = append(b.pointDraws, drawRange{first: first, count: count, additive: batch.Style.AdditiveBlending})
		}
	}

	b.lineVertices = b.lineVertices[:0]
	b.lineDraws = b.lineDraws[:0]
	for _, batch := range f.Lines {
		first := uint32(len(b.lineVertices) / lineVertexFloats)
		b.lineVertices = appendLineVertices(b.lineVertices, batch)
		count := uint32(len(b.lineVertices)/lineVertexFloats) - first
		if count > 0 {
			b.lineDraws = append(b.lineDraws, drawRange{first: first, count: count})
		}
	}

	if err := b.upload(&b.points, b.pointVertices); err != nil {
		return err
	}
	return b.upload(&b.lines, b.lineVertices)
}

// upload writes data into vb, replacing the buffer with a larger one when it no longer fits.
func (b *wgpuRendererBackendImpl) upload(vb *vertexBuffer, data []float32) error {
	if len(data) == 0 {
		return nil
	}
	size := uint64(len(data) * 4)
	if vb.buf == nil || size > vb.capacity {
		capacity := max(vb.capacity, 4096)
		for capacity < size {
			capacity *= 2
		}
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: vb.label,
			Size:  capacity,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("failed to grow %s to %d bytes: %w", vb.label, capacity, err)
		}
		if vb.buf != nil {
			vb.buf.Release()
		}
		vb.buf = buf
		vb.capacity = capacity
	}
	b.queue.WriteBuffer(vb.buf, 0, common.SliceToBytes(data))
	return nil
}

func (b *wgpuRendererBackendImpl) beginFrame() error {
	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	if b.sampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = view
	}
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view

	return nil
}

func (b *wgpuRendererBackendImpl) endFrame() {
	b.framePass.End()

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.frameEncoder.Release()
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameEncoder = nil
		b.framePass = nil
		b.frameSurface = nil
		b.frameView = nil
		return
	}

	b.queue.Submit(commandBuffer)

	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
	b.framePass = nil
}

func (b *wgpuRendererBackendImpl) present() {
	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackendImpl) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.releaseTargets()
	for _, vb := range []*vertexBuffer{&b.points, &b.lines} {
		if vb.buf != nil {
			vb.buf.Release()
			vb.buf = nil
		}
	}
	for _, p := range []**wgpu.RenderPipeline{&b.alphaPointPipeline, &b.additivePointPipeline, &b.linePipeline} {
		if *p != nil {
			(*p).Release()
			*p = nil
		}
	}
	if b.pipelineLayout != nil {
		b.pipelineLayout.Release()
		b.pipelineLayout = nil
	}
	if b.shaderModule != nil {
		b.shaderModule.Release()
		b.shaderModule = nil
	}
	if b.bindGroup != nil {
		b.bindGroup.Release()
		b.bindGroup = nil
	}
	if b.bindGroupLayout != nil {
		b.bindGroupLayout.Release()
		b.bindGroupLayout = nil
	}
	if b.uniformBuffer != nil {
		b.uniformBuffer.Release()
		b.uniformBuffer = nil
	}
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
	runtime.UnlockOSThread()
}
